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

package signer

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// BuildMessage returns the canonical string signed for a request:
//
//	METHOD \n PATH \n hex(sha256(body)) \n timestampMs \n DID
//
// Method, path and body are used verbatim. An empty body is hashed, not omitted.
func BuildMessage(method, path, body string, timestampMs int64, agentDID string) string {
	bodyHash := sha256.Sum256([]byte(body))

	var b strings.Builder
	b.Grow(len(method) + len(path) + len(agentDID) + 2*sha256.Size + 24)
	b.WriteString(method)
	b.WriteByte('\n')
	b.WriteString(path)
	b.WriteByte('\n')
	b.WriteString(hex.EncodeToString(bodyHash[:]))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatInt(timestampMs, 10))
	b.WriteByte('\n')
	b.WriteString(agentDID)
	return b.String()
}

// SignRequest signs a request with a hex-encoded private key. The chain, and
// with it the signature algorithm, comes from the DID.
func SignRequest(method, path, body string, timestampMs int64, agentDID, privateKeyHex string) (string, error) {
	parsed, err := did.Parse(agentDID)
	if err != nil {
		return "", err
	}

	s, err := NewPrivateKeySigner(parsed.Chain, privateKeyHex)
	if err != nil {
		return "", err
	}
	defer s.Zero()

	return signParsed(context.Background(), s, parsed, method, path, body, timestampMs, agentDID)
}

// SignRequestWith signs a request through s. For the same key it produces
// exactly the signature SignRequest does.
func SignRequestWith(ctx context.Context, s Signer, method, path, body string, timestampMs int64, agentDID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}
	if s == nil {
		return "", fmt.Errorf("signer cannot be nil")
	}

	parsed, err := did.Parse(agentDID)
	if err != nil {
		return "", err
	}
	return signParsed(ctx, s, parsed, method, path, body, timestampMs, agentDID)
}

func signParsed(ctx context.Context, s Signer, parsed did.Parsed, method, path, body string, timestampMs int64, agentDID string) (string, error) {
	address, err := s.GetAddress(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get signer address: %w", err)
	}
	if !addressMatches(parsed, address) {
		return "", fmt.Errorf("%w: signer %s, DID %s", errdefs.ErrSignerMismatch, address, parsed.Address)
	}

	message := BuildMessage(method, path, body, timestampMs, agentDID)
	sig, err := s.SignMessage(ctx, []byte(message))
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	switch parsed.Chain {
	case did.ChainEVM:
		sig, err = normalizeRecoverable(sig)
		if err != nil {
			return "", err
		}
	case did.ChainSolana:
		if len(sig) != ed25519.SignatureSize {
			return "", fmt.Errorf("%w: ed25519 signature must be %d bytes, got %d",
				errdefs.ErrInvalidSignature, ed25519.SignatureSize, len(sig))
		}
	default:
		return "", fmt.Errorf("%w: %q", errdefs.ErrUnsupportedChain, parsed.Chain)
	}

	return hex.EncodeToString(sig), nil
}

// addressMatches compares EVM addresses case-insensitively (checksum casing
// is presentation only) and Solana addresses exactly.
func addressMatches(parsed did.Parsed, address string) bool {
	if parsed.Chain == did.ChainEVM {
		return strings.EqualFold(parsed.Address, address)
	}
	return parsed.Address == address
}
