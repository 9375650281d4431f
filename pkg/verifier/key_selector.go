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

	"github.com/ethereum/go-ethereum/common"

	"github.com/xache-protocol/xache-go/pkg/did"
)

// PublicKey is the verification material for one DID. EVM DIDs carry an
// address, which is checked against the key recovered from the signature.
type PublicKey struct {
	Chain   did.Chain
	Address common.Address
	Ed25519 ed25519.PublicKey
}

type KeySelector interface {
	// SelectKey returns the key a signature from agentDID must verify under
	SelectKey(ctx context.Context, agentDID did.AgentDID) (PublicKey, error)
}
