// Copyright (C) 2025 Xache Protocol
//
// This file is part of xache-go.
//
// xache-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xache-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with xache-go.  If not, see <https://www.gnu.org/licenses/>.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/xache-protocol/xache-go/pkg/auth"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// maxErrorBody bounds how much of a 402 response is read.
const maxErrorBody = 64 << 10

// Client is an HTTP client that signs every request as one agent
type Client struct {
	baseURL    string
	assembler  *auth.Assembler
	httpClient *http.Client
}

// New creates a client for the API at baseURL, which must not carry a path:
// the signed path is the one passed to Do.
// If httpClient is nil, http.DefaultClient is used
func New(baseURL string, assembler *auth.Assembler, httpClient *http.Client) (*Client, error) {
	if assembler == nil {
		return nil, fmt.Errorf("assembler cannot be nil")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL: %v", errdefs.ErrInvalidFormat, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base URL scheme must be http or https", errdefs.ErrInvalidFormat)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base URL has no host", errdefs.ErrInvalidFormat)
	}
	if strings.Trim(u.Path, "/") != "" || u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("%w: base URL must not carry a path or query", errdefs.ErrInvalidFormat)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    u.Scheme + "://" + u.Host,
		assembler:  assembler,
		httpClient: httpClient,
	}, nil
}

// Do signs and sends a request. path is the request target, including any
// query string, and is signed verbatim. Mutating methods get a fresh
// idempotency key unless opts supply one.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, opts ...auth.HeaderOption) (*http.Response, error) {
	// Check context first
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: path must start with /", errdefs.ErrInvalidFormat)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	// The server verifies against the target as received.
	if got := req.URL.RequestURI(); got != path {
		return nil, fmt.Errorf("%w: path %q would be sent as %q", errdefs.ErrInvalidFormat, path, got)
	}

	if isMutating(method) {
		opts = append([]auth.HeaderOption{auth.WithIdempotencyKey(auth.NewIdempotencyKey())}, opts...)
	}
	h, err := c.assembler.Headers(ctx, method, path, string(body), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}
	h.Apply(req)
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		defer resp.Body.Close()
		return nil, newPaymentRequiredError(resp)
	}
	return resp, nil
}

// Post sends a signed POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body []byte, opts ...auth.HeaderOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Get sends a signed GET request
func (c *Client) Get(ctx context.Context, path string, opts ...auth.HeaderOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// GetAgentDID returns the agent DID
func (c *Client) GetAgentDID() string {
	return c.assembler.DID()
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// PaymentRequiredError is returned for HTTP 402. Retrying the same request
// with auth.WithIdempotencyKey(ChallengeID) ties it to the challenge.
type PaymentRequiredError struct {
	ChallengeID string
	Body        []byte
}

func (e *PaymentRequiredError) Error() string {
	if e.ChallengeID == "" {
		return "payment required"
	}
	return fmt.Sprintf("payment required: challenge %s", e.ChallengeID)
}

func newPaymentRequiredError(resp *http.Response) *PaymentRequiredError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		ChallengeID      string `json:"challenge_id"`
		ChallengeIDCamel string `json:"challengeId"`
	}
	_ = json.Unmarshal(body, &payload)

	id := payload.ChallengeID
	if id == "" {
		id = payload.ChallengeIDCamel
	}
	return &PaymentRequiredError{ChallengeID: id, Body: body}
}
