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
	"crypto/ecdsa"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

const (
	// EVMKeySize is the length of a secp256k1 private key.
	EVMKeySize = 32

	// RecoverableSignatureSize is the length of an r || s || v signature.
	RecoverableSignatureSize = 65
)

// DecodeKeyHex decodes a hex-encoded key with an optional 0x prefix.
func DecodeKeyHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not valid hex", errdefs.ErrInvalidFormat)
	}
	return b, nil
}

// ParseEVMKey builds a secp256k1 private key from 32 raw bytes.
func ParseEVMKey(raw []byte) (*ecdsa.PrivateKey, error) {
	if len(raw) != EVMKeySize {
		return nil, fmt.Errorf("%w: evm key must be %d bytes, got %d", errdefs.ErrInvalidKeyLength, EVMKeySize, len(raw))
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid secp256k1 key: %v", errdefs.ErrInvalidFormat, err)
	}
	return key, nil
}

// ParseSolanaKey builds an ed25519 private key from a 32-byte seed or a
// 64-byte seed || public key blob. A blob whose public half does not match
// its seed is rejected.
func ParseSolanaKey(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		key := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		if !key.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(raw[ed25519.SeedSize:])) {
			clear(key)
			return nil, fmt.Errorf("%w: solana keypair public half does not match seed", errdefs.ErrInvalidFormat)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: solana key must be %d or %d bytes, got %d",
			errdefs.ErrInvalidKeyLength, ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}

// EVMAddress returns the EIP-55 checksummed address of key.
func EVMAddress(key *ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(*key).Hex()
}

// SolanaAddress returns the base58 address of an ed25519 public key.
func SolanaAddress(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}

// normalizeRecoverable returns a copy of an EVM signature with v in {27, 28}.
// Wallets that report v in {0, 1} are shifted.
func normalizeRecoverable(sig []byte) ([]byte, error) {
	if len(sig) != RecoverableSignatureSize {
		return nil, fmt.Errorf("%w: evm signature must be %d bytes, got %d",
			errdefs.ErrInvalidSignature, RecoverableSignatureSize, len(sig))
	}
	out := make([]byte, RecoverableSignatureSize)
	copy(out, sig)
	v := out[crypto.RecoveryIDOffset]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return nil, fmt.Errorf("%w: unexpected recovery id %d", errdefs.ErrInvalidSignature, out[crypto.RecoveryIDOffset])
	}
	out[crypto.RecoveryIDOffset] = v
	return out, nil
}
