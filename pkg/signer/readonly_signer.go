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

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// ReadOnlySigner knows an address but holds no key. It lets read paths
// (address lookups, DID construction) share the Signer plumbing.
type ReadOnlySigner struct {
	address string
}

// NewReadOnlySigner creates a signer that only reports address.
func NewReadOnlySigner(address string) *ReadOnlySigner {
	return &ReadOnlySigner{address: address}
}

// GetAddress returns the configured address.
func (s *ReadOnlySigner) GetAddress(ctx context.Context) (string, error) {
	return s.address, nil
}

// SignMessage always fails with errdefs.ErrReadOnlySigner.
func (s *ReadOnlySigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return nil, errdefs.ErrReadOnlySigner
}

// SignTypedData always fails with errdefs.ErrReadOnlySigner.
func (s *ReadOnlySigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	return nil, errdefs.ErrReadOnlySigner
}
