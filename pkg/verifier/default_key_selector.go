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
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// DefaultKeySelector reads the key straight out of the DID. Agent DIDs are
// self-certifying, so no registry lookup is needed.
type DefaultKeySelector struct{}

func NewDefaultKeySelector() *DefaultKeySelector {
	return &DefaultKeySelector{}
}

func (s *DefaultKeySelector) SelectKey(ctx context.Context, agentDID did.AgentDID) (PublicKey, error) {
	if err := ctx.Err(); err != nil {
		return PublicKey{}, fmt.Errorf("context error: %w", err)
	}

	parsed, err := did.Parse(string(agentDID))
	if err != nil {
		return PublicKey{}, err
	}

	switch parsed.Chain {
	case did.ChainEVM:
		return PublicKey{Chain: did.ChainEVM, Address: common.HexToAddress(parsed.Address)}, nil
	case did.ChainSolana:
		raw, err := base58.Decode(parsed.Address)
		if err != nil {
			return PublicKey{}, fmt.Errorf("%w: solana address is not base58", errdefs.ErrInvalidFormat)
		}
		if len(raw) != ed25519.PublicKeySize {
			return PublicKey{}, fmt.Errorf("%w: solana address decodes to %d bytes, want %d",
				errdefs.ErrInvalidFormat, len(raw), ed25519.PublicKeySize)
		}
		return PublicKey{Chain: did.ChainSolana, Ed25519: ed25519.PublicKey(raw)}, nil
	default:
		return PublicKey{}, fmt.Errorf("%w: %q", errdefs.ErrUnsupportedChain, parsed.Chain)
	}
}
