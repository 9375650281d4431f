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

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Signer is the capability set an agent wallet exposes to the request signer.
//
// SignMessage follows the chain convention of the wallet: EVM signers return
// a 65-byte EIP-191 personal-message signature r || s || v with v in {27, 28};
// Solana signers return a 64-byte ed25519 signature over the raw bytes.
type Signer interface {
	// GetAddress returns the wallet address the DID is expected to carry
	GetAddress(ctx context.Context) (string, error)

	// SignMessage signs message using the wallet's chain convention
	SignMessage(ctx context.Context, message []byte) ([]byte, error)

	// SignTypedData signs EIP-712 typed data. Solana signers do not support it.
	SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error)
}
