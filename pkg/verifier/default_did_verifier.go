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
	"fmt"
	"net/http"
	"time"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
	"github.com/xache-protocol/xache-go/pkg/signer"
)

// DefaultDIDVerifier depends on:
//   - selector (maps a DID to its verification key)
//   - signatureVerifier (checks the chain's signature scheme)
type DefaultDIDVerifier struct {
	selector          KeySelector
	signatureVerifier SignatureVerifier
	now               func() time.Time
}

// NewDefaultDIDVerifier creates a verifier. Nil arguments select
// DefaultKeySelector and ChainSignatureVerifier.
func NewDefaultDIDVerifier(selector KeySelector, signatureVerifier SignatureVerifier) *DefaultDIDVerifier {
	if selector == nil {
		selector = NewDefaultKeySelector()
	}
	if signatureVerifier == nil {
		signatureVerifier = NewChainSignatureVerifier()
	}
	return &DefaultDIDVerifier{
		selector:          selector,
		signatureVerifier: signatureVerifier,
		now:               time.Now,
	}
}

// SetClock replaces the clock used for the timestamp window.
func (v *DefaultDIDVerifier) SetClock(now func() time.Time) {
	if now != nil {
		v.now = now
	}
}

// Verify checks DID syntax, the timestamp window and the signature.
func (v *DefaultDIDVerifier) Verify(ctx context.Context, env *Envelope, method, path, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if env == nil {
		return errdefs.ErrMissingHeaders
	}

	if _, err := did.Parse(env.AgentDID); err != nil {
		return err
	}
	if err := signer.ValidateTimestamp(env.Timestamp, v.now().UnixMilli()); err != nil {
		return err
	}

	sig, err := signer.DecodeKeyHex(env.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not hex", errdefs.ErrInvalidSignature)
	}

	key, err := v.selector.SelectKey(ctx, did.AgentDID(env.AgentDID))
	if err != nil {
		return fmt.Errorf("failed to select key: %w", err)
	}

	message := signer.BuildMessage(method, path, body, env.Timestamp, env.AgentDID)
	if err := v.signatureVerifier.VerifySignature(key, []byte(message), sig); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

// VerifyRequest verifies req with the request target exactly as received.
// Server requests use RequestURI; client-built requests fall back to the URL.
func (v *DefaultDIDVerifier) VerifyRequest(ctx context.Context, req *http.Request, body []byte) (did.AgentDID, error) {
	env, err := ParseHeaders(req.Header)
	if err != nil {
		return "", err
	}

	target := req.RequestURI
	if target == "" {
		target = req.URL.RequestURI()
	}

	if err := v.Verify(ctx, env, req.Method, target, string(body)); err != nil {
		return "", err
	}
	return did.AgentDID(env.AgentDID), nil
}
