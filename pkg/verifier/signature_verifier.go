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
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

type SignatureVerifier interface {
	VerifySignature(key PublicKey, message, sig []byte) error
}

// ChainSignatureVerifier checks EIP-191 personal_sign signatures for EVM
// keys and raw ed25519 signatures for Solana keys.
type ChainSignatureVerifier struct{}

func NewChainSignatureVerifier() *ChainSignatureVerifier {
	return &ChainSignatureVerifier{}
}

func (v *ChainSignatureVerifier) VerifySignature(key PublicKey, message, sig []byte) error {
	switch key.Chain {
	case did.ChainEVM:
		return verifyEVM(key, message, sig)
	case did.ChainSolana:
		return verifySolana(key, message, sig)
	default:
		return fmt.Errorf("%w: %q", errdefs.ErrUnsupportedChain, key.Chain)
	}
}

func verifyEVM(key PublicKey, message, sig []byte) error {
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("%w: want %d bytes, got %d", errdefs.ErrInvalidSignature, crypto.SignatureLength, len(sig))
	}

	rsv := make([]byte, len(sig))
	copy(rsv, sig)
	if rsv[64] >= 27 {
		rsv[64] -= 27
	}
	if rsv[64] > 1 {
		return fmt.Errorf("%w: bad recovery id %d", errdefs.ErrInvalidSignature, sig[64])
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), rsv)
	if err != nil {
		return fmt.Errorf("%w: %v", errdefs.ErrInvalidSignature, err)
	}
	if recovered := crypto.PubkeyToAddress(*pub); recovered != key.Address {
		return fmt.Errorf("%w: recovered %s", errdefs.ErrInvalidSignature, recovered.Hex())
	}
	return nil
}

func verifySolana(key PublicKey, message, sig []byte) error {
	if len(key.Ed25519) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: ed25519 public key must be %d bytes", errdefs.ErrInvalidKeyLength, ed25519.PublicKeySize)
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: want %d bytes, got %d", errdefs.ErrInvalidSignature, ed25519.SignatureSize, len(sig))
	}
	if !ed25519.Verify(key.Ed25519, message, sig) {
		return errdefs.ErrInvalidSignature
	}
	return nil
}
