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
	"fmt"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// SignMessageFunc signs a message the way the wallet's chain expects.
type SignMessageFunc func(ctx context.Context, message []byte) ([]byte, error)

// SignTypedDataFunc signs EIP-712 typed data.
type SignTypedDataFunc func(ctx context.Context, typedData apitypes.TypedData) ([]byte, error)

// ExternalSigner delegates signing to caller-supplied functions, for keys
// held by a KMS, an HSM or another process.
type ExternalSigner struct {
	address       string
	signMessage   SignMessageFunc
	signTypedData SignTypedDataFunc
}

// NewExternalSigner creates a signer for address. signTypedData may be nil.
func NewExternalSigner(address string, signMessage SignMessageFunc, signTypedData SignTypedDataFunc) *ExternalSigner {
	return &ExternalSigner{
		address:       address,
		signMessage:   signMessage,
		signTypedData: signTypedData,
	}
}

// GetAddress returns the configured address.
func (s *ExternalSigner) GetAddress(ctx context.Context) (string, error) {
	return s.address, nil
}

// SignMessage calls the configured message signer.
func (s *ExternalSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if s.signMessage == nil {
		return nil, fmt.Errorf("%w: no message signer configured", errdefs.ErrUnsupportedOperation)
	}
	return s.signMessage(ctx, message)
}

// SignTypedData calls the configured typed-data signer.
func (s *ExternalSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	if s.signTypedData == nil {
		return nil, fmt.Errorf("%w: no typed data signer configured", errdefs.ErrUnsupportedOperation)
	}
	return s.signTypedData(ctx, typedData)
}
