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

package verifier

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/xache-protocol/xache-go/pkg/auth"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// Envelope is the authentication data carried by a request.
type Envelope struct {
	AgentDID       string
	Signature      string
	Timestamp      int64
	IdempotencyKey string
}

// ParseHeaders extracts the envelope from request headers.
func ParseHeaders(h http.Header) (*Envelope, error) {
	agentDID := h.Get(auth.HeaderAgentDID)
	sig := h.Get(auth.HeaderSignature)
	ts := h.Get(auth.HeaderTimestamp)

	var missing []string
	if agentDID == "" {
		missing = append(missing, auth.HeaderAgentDID)
	}
	if sig == "" {
		missing = append(missing, auth.HeaderSignature)
	}
	if ts == "" {
		missing = append(missing, auth.HeaderTimestamp)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", errdefs.ErrMissingHeaders, missing)
	}

	timestamp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not an integer", errdefs.ErrInvalidFormat, auth.HeaderTimestamp)
	}

	return &Envelope{
		AgentDID:       agentDID,
		Signature:      sig,
		Timestamp:      timestamp,
		IdempotencyKey: h.Get(auth.HeaderIdempotencyKey),
	}, nil
}
