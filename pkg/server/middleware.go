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

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/xache-protocol/xache-go/pkg/auth"
	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/verifier"
)

type contextKey string

const agentDIDKey contextKey = "agent_did"

// maxAuthBody caps the request body read for signature verification.
const maxAuthBody = 1 << 20

var errReadBody = errors.New("failed to read body")

// ErrorHandler handles verification errors
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DIDAuthMiddleware provides HTTP middleware for DID signature verification
type DIDAuthMiddleware struct {
	verifier     verifier.DIDVerifier
	errorHandler ErrorHandler
	optional     bool
}

// NewDIDAuthMiddleware creates a new DID authentication middleware
func NewDIDAuthMiddleware() *DIDAuthMiddleware {
	return NewDIDAuthMiddlewareWithVerifier(verifier.NewDefaultDIDVerifier(nil, nil))
}

// NewDIDAuthMiddlewareWithVerifier creates middleware with a custom verifier
func NewDIDAuthMiddlewareWithVerifier(didVerifier verifier.DIDVerifier) *DIDAuthMiddleware {
	return &DIDAuthMiddleware{
		verifier:     didVerifier,
		errorHandler: defaultErrorHandler,
		optional:     false,
	}
}

// SetErrorHandler sets a custom error handler
func (m *DIDAuthMiddleware) SetErrorHandler(handler ErrorHandler) {
	m.errorHandler = handler
}

// SetOptional sets whether signature verification is optional
// If true, requests without any auth headers are allowed to pass through
func (m *DIDAuthMiddleware) SetOptional(optional bool) {
	m.optional = optional
}

// Wrap wraps an HTTP handler with DID authentication
func (m *DIDAuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip verification for OPTIONS requests (CORS preflight)
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if m.optional && !hasAuthHeaders(r) {
			// Allow request to proceed without DID in context
			next.ServeHTTP(w, r)
			return
		}

		// Read body to preserve it for handler
		var bodyBytes []byte
		if r.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxAuthBody))
			r.Body.Close()
			if err != nil {
				m.errorHandler(w, r, fmt.Errorf("%w: %w", errReadBody, err))
				return
			}
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		ctx := r.Context()
		agentDID, err := m.verifier.VerifyRequest(ctx, r, bodyBytes)
		if err != nil {
			log.Printf("did auth: rejected %s %s from %q: %v", r.Method, r.URL.Path, r.Header.Get(auth.HeaderAgentDID), err)
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			m.errorHandler(w, r, err)
			return
		}

		// Restore body for handler
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		ctx = context.WithValue(ctx, agentDIDKey, agentDID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func hasAuthHeaders(r *http.Request) bool {
	return r.Header.Get(auth.HeaderAgentDID) != "" ||
		r.Header.Get(auth.HeaderSignature) != "" ||
		r.Header.Get(auth.HeaderTimestamp) != ""
}

// GetAgentDIDFromContext extracts the agent DID from request context
func GetAgentDIDFromContext(ctx context.Context) (did.AgentDID, bool) {
	agentDID, ok := ctx.Value(agentDIDKey).(did.AgentDID)
	return agentDID, ok
}

// defaultErrorHandler answers 413 for oversized bodies, 400 when the body
// could not be read and 401 otherwise
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusUnauthorized
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, errReadBody):
		status = http.StatusBadRequest
	}
	http.Error(w, fmt.Sprintf("%s: %s", http.StatusText(status), err.Error()), status)
}
