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

package auth

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Request headers carrying the signature envelope.
const (
	HeaderAgentDID       = "X-Agent-DID"
	HeaderSignature      = "X-Sig"
	HeaderTimestamp      = "X-Ts"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Headers is one signed request's authentication envelope.
type Headers struct {
	AgentDID       string
	Signature      string
	Timestamp      int64
	IdempotencyKey string
}

// Apply sets the headers on req. An empty idempotency key is left unset.
func (h Headers) Apply(req *http.Request) {
	req.Header.Set(HeaderAgentDID, h.AgentDID)
	req.Header.Set(HeaderSignature, h.Signature)
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(h.Timestamp, 10))
	if h.IdempotencyKey != "" {
		req.Header.Set(HeaderIdempotencyKey, h.IdempotencyKey)
	}
}

// Map returns the headers as name/value pairs, for transports other than net/http.
func (h Headers) Map() map[string]string {
	m := map[string]string{
		HeaderAgentDID:  h.AgentDID,
		HeaderSignature: h.Signature,
		HeaderTimestamp: strconv.FormatInt(h.Timestamp, 10),
	}
	if h.IdempotencyKey != "" {
		m[HeaderIdempotencyKey] = h.IdempotencyKey
	}
	return m
}

// HeaderOption customizes a single Headers call.
type HeaderOption func(*Headers)

// WithIdempotencyKey attaches key as the Idempotency-Key. Retrying a paid
// request uses the challenge id returned with the 402 response.
func WithIdempotencyKey(key string) HeaderOption {
	return func(h *Headers) {
		h.IdempotencyKey = key
	}
}

// NewIdempotencyKey returns a random UUIDv4.
func NewIdempotencyKey() string {
	return uuid.NewString()
}
