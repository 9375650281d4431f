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
	"context"
	"net/http"

	"github.com/xache-protocol/xache-go/pkg/did"
)

// DIDVerifier verifies requests signed with agent DIDs
type DIDVerifier interface {
	// Verify checks env against the request it claims to sign.
	// path is the request target (path plus raw query) as sent.
	Verify(ctx context.Context, env *Envelope, method, path, body string) error

	// VerifyRequest parses the auth headers of req and verifies them against
	// body, returning the authenticated DID
	VerifyRequest(ctx context.Context, req *http.Request, body []byte) (did.AgentDID, error)
}
