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

package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xache-protocol/xache-go/pkg/auth"
)

// SigningTransport is an http.RoundTripper that authenticates every request
// as one agent.
type SigningTransport struct {
	assembler *auth.Assembler
	base      http.RoundTripper
}

// NewSigningTransport wraps base, or http.DefaultTransport when base is nil.
func NewSigningTransport(assembler *auth.Assembler, base http.RoundTripper) *SigningTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &SigningTransport{assembler: assembler, base: base}
}

// NewHTTPClient returns an *http.Client that signs through a SigningTransport.
func NewHTTPClient(assembler *auth.Assembler, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewSigningTransport(assembler, nil),
		Timeout:   timeout,
	}
}

// RoundTrip signs a copy of req and sends it. req itself is not modified.
func (t *SigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.assembler == nil {
		closeBody(req)
		return nil, fmt.Errorf("signing transport has no assembler")
	}

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		body = b
	}

	out := req.Clone(req.Context())
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		out.ContentLength = int64(len(body))
	}

	// An empty client method is sent as GET.
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var opts []auth.HeaderOption
	if key := req.Header.Get(auth.HeaderIdempotencyKey); key != "" {
		opts = append(opts, auth.WithIdempotencyKey(key))
	} else if isMutating(method) {
		opts = append(opts, auth.WithIdempotencyKey(auth.NewIdempotencyKey()))
	}

	h, err := t.assembler.Headers(req.Context(), method, out.URL.RequestURI(), string(body), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}
	h.Apply(out)

	return t.base.RoundTrip(out)
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
