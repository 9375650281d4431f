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

package fingerprint

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

const (
	cogSaltLabel        = "xache:cog:salt:v1"
	projectionSeedLabel = "xache:cog:projection:v1"
)

// DeriveCogSalt returns the per-agent salt keying the topic hashes.
func DeriveCogSalt(agentKey []byte) ([]byte, error) {
	return keyedHash(agentKey, cogSaltLabel)
}

// DeriveProjectionSeed returns the per-agent seed keying the embedding projection.
func DeriveProjectionSeed(agentKey []byte) ([]byte, error) {
	return keyedHash(agentKey, projectionSeedLabel)
}

func keyedHash(agentKey []byte, label string) ([]byte, error) {
	if len(agentKey) != AgentKeySize {
		return nil, fmt.Errorf("%w: agent key must be %d bytes, got %d",
			errdefs.ErrInvalidKeyLength, AgentKeySize, len(agentKey))
	}
	h, err := blake2b.New256(agentKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errdefs.ErrInvalidKeyLength, err)
	}
	h.Write([]byte(label))
	return h.Sum(nil), nil
}
