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

// Package keys derives the agent's long-lived key material from its wallet
// private key and DID.
//
// Each purpose gets its own domain-separation label off the same root, so no
// derived key reveals another: the agent key feeds subject ids, entity keys
// and cognitive fingerprints, the encryption key protects memory payloads.
package keys

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
	"github.com/xache-protocol/xache-go/pkg/signer"
)

const (
	// Size is the length of every derived key.
	Size = 32

	AgentKeyLabel      = "xache:agent-key:v1"
	EncryptionKeyLabel = "xache:encryption:v1"
)

// Material is the per-session key material of one agent.
type Material struct {
	AgentKey      [Size]byte
	EncryptionKey [Size]byte
}

// Derive computes the key material for agentDID from a raw private key.
// EVM keys are 32 bytes; Solana keys are a 32-byte seed or a 64-byte
// keypair whose seed half is the root and whose public half matches it.
func Derive(privateKey []byte, agentDID string) (*Material, error) {
	parsed, err := did.Parse(agentDID)
	if err != nil {
		return nil, err
	}

	root, err := rootSecret(parsed.Chain, privateKey)
	if err != nil {
		return nil, err
	}
	defer clear(root)

	m := &Material{}
	if err := deriveInto(m.AgentKey[:], root, AgentKeyLabel, agentDID); err != nil {
		return nil, err
	}
	if err := deriveInto(m.EncryptionKey[:], root, EncryptionKeyLabel, agentDID); err != nil {
		return nil, err
	}
	return m, nil
}

// DeriveHex is Derive for a hex-encoded private key with optional 0x prefix.
func DeriveHex(privateKeyHex, agentDID string) (*Material, error) {
	raw, err := signer.DecodeKeyHex(privateKeyHex)
	if err != nil {
		return nil, err
	}
	defer clear(raw)
	return Derive(raw, agentDID)
}

// Zero wipes the key material.
func (m *Material) Zero() {
	clear(m.AgentKey[:])
	clear(m.EncryptionKey[:])
}

// rootSecret returns a copy of the secret the derivations are keyed with.
func rootSecret(chain did.Chain, privateKey []byte) ([]byte, error) {
	switch chain {
	case did.ChainEVM:
		if len(privateKey) != signer.EVMKeySize {
			return nil, fmt.Errorf("%w: evm key must be %d bytes, got %d", errdefs.ErrInvalidKeyLength, signer.EVMKeySize, len(privateKey))
		}
		return bytes.Clone(privateKey), nil
	case did.ChainSolana:
		key, err := signer.ParseSolanaKey(privateKey)
		if err != nil {
			return nil, err
		}
		defer clear(key)
		return key.Seed(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errdefs.ErrUnsupportedChain, chain)
	}
}

// deriveInto writes BLAKE2b-256(key=root, label || 0x00 || did) to dst.
func deriveInto(dst, root []byte, label, agentDID string) error {
	h, err := blake2b.New256(root)
	if err != nil {
		return fmt.Errorf("failed to init blake2b: %w", err)
	}
	h.Write([]byte(label))
	h.Write([]byte{0})
	h.Write([]byte(agentDID))
	copy(dst, h.Sum(nil))
	return nil
}
