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
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// PrivateKeySigner signs with a raw private key held in memory.
//
// The key is owned by the signer. Call Zero when the session ends.
type PrivateKeySigner struct {
	chain  did.Chain
	evmKey *ecdsa.PrivateKey
	solKey ed25519.PrivateKey
}

// NewPrivateKeySigner decodes a hex private key (optional 0x prefix) for chain.
func NewPrivateKeySigner(chain did.Chain, privateKeyHex string) (*PrivateKeySigner, error) {
	raw, err := DecodeKeyHex(privateKeyHex)
	if err != nil {
		return nil, err
	}
	defer clear(raw)

	switch chain {
	case did.ChainEVM:
		return NewEVMSigner(raw)
	case did.ChainSolana:
		return NewSolanaSigner(raw)
	default:
		return nil, fmt.Errorf("%w: %q", errdefs.ErrUnsupportedChain, chain)
	}
}

// NewEVMSigner creates a secp256k1 signer from a 32-byte key.
func NewEVMSigner(raw []byte) (*PrivateKeySigner, error) {
	key, err := ParseEVMKey(raw)
	if err != nil {
		return nil, err
	}
	return &PrivateKeySigner{chain: did.ChainEVM, evmKey: key}, nil
}

// NewSolanaSigner creates an ed25519 signer from a 32-byte seed or 64-byte keypair.
func NewSolanaSigner(raw []byte) (*PrivateKeySigner, error) {
	key, err := ParseSolanaKey(raw)
	if err != nil {
		return nil, err
	}
	return &PrivateKeySigner{chain: did.ChainSolana, solKey: key}, nil
}

// Chain returns the chain the key signs for.
func (s *PrivateKeySigner) Chain() did.Chain {
	return s.chain
}

// GetAddress returns the checksummed EVM address or the base58 Solana address.
func (s *PrivateKeySigner) GetAddress(ctx context.Context) (string, error) {
	switch {
	case s.evmKey != nil:
		return EVMAddress(&s.evmKey.PublicKey), nil
	case s.solKey != nil:
		return SolanaAddress(s.solKey.Public().(ed25519.PublicKey)), nil
	default:
		return "", fmt.Errorf("%w: key has been zeroed", errdefs.ErrInvalidFormat)
	}
}

// SignMessage signs message with EIP-191 personal_sign (EVM) or raw ed25519 (Solana).
func (s *PrivateKeySigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	switch {
	case s.evmKey != nil:
		return signDigest(s.evmKey, accounts.TextHash(message))
	case s.solKey != nil:
		return ed25519.Sign(s.solKey, message), nil
	default:
		return nil, fmt.Errorf("%w: key has been zeroed", errdefs.ErrInvalidFormat)
	}
}

// SignTypedData signs the EIP-712 digest of typedData. Only EVM keys support it.
func (s *PrivateKeySigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if s.evmKey == nil {
		return nil, fmt.Errorf("%w: typed data signing on %s", errdefs.ErrUnsupportedOperation, s.chain)
	}

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to hash typed data: %w", err)
	}
	return signDigest(s.evmKey, digest)
}

// Zero wipes the key material. The signer is unusable afterwards.
func (s *PrivateKeySigner) Zero() {
	if s.evmKey != nil {
		s.evmKey.D.SetUint64(0)
		s.evmKey = nil
	}
	if s.solKey != nil {
		clear(s.solKey)
		s.solKey = nil
	}
}

func signDigest(key *ecdsa.PrivateKey, digest []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}
