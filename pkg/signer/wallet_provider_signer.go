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
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// WalletProvider is the subset of an EIP-1193 wallet used for signing.
// Signatures are returned hex-encoded, with or without a 0x prefix.
type WalletProvider interface {
	// RequestAccounts returns the accounts the wallet exposes (eth_requestAccounts)
	RequestAccounts(ctx context.Context) ([]string, error)

	// PersonalSign signs message with EIP-191 (personal_sign)
	PersonalSign(ctx context.Context, address string, message []byte) (string, error)

	// SignTypedDataV4 signs the JSON encoding of EIP-712 typed data (eth_signTypedData_v4)
	SignTypedDataV4(ctx context.Context, address string, typedData []byte) (string, error)
}

// WalletProviderSigner signs through a connected EVM wallet.
type WalletProviderSigner struct {
	provider WalletProvider
	address  string
}

// NewWalletProviderSigner binds the signer to the wallet's first account.
func NewWalletProviderSigner(ctx context.Context, provider WalletProvider) (*WalletProviderSigner, error) {
	if provider == nil {
		return nil, fmt.Errorf("wallet provider cannot be nil")
	}
	accts, err := provider.RequestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to request accounts: %w", err)
	}
	if len(accts) == 0 {
		return nil, fmt.Errorf("wallet provider returned no accounts")
	}
	return &WalletProviderSigner{provider: provider, address: accts[0]}, nil
}

// GetAddress returns the bound account.
func (s *WalletProviderSigner) GetAddress(ctx context.Context) (string, error) {
	return s.address, nil
}

// SignMessage asks the wallet for a personal_sign signature.
func (s *WalletProviderSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	sigHex, err := s.provider.PersonalSign(ctx, s.address, message)
	if err != nil {
		return nil, fmt.Errorf("wallet personal_sign failed: %w", err)
	}
	return decodeWalletSignature(sigHex)
}

// SignTypedData asks the wallet for an eth_signTypedData_v4 signature.
func (s *WalletProviderSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	payload, err := json.Marshal(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	sigHex, err := s.provider.SignTypedDataV4(ctx, s.address, payload)
	if err != nil {
		return nil, fmt.Errorf("wallet eth_signTypedData_v4 failed: %w", err)
	}
	return decodeWalletSignature(sigHex)
}

func decodeWalletSignature(sigHex string) ([]byte, error) {
	sig, err := DecodeKeyHex(sigHex)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet signature is not hex", errdefs.ErrInvalidSignature)
	}
	return normalizeRecoverable(sig)
}
