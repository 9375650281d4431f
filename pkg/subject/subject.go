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

// Package subject derives pseudonymous subject identifiers and
// knowledge-graph entity keys from raw identifiers.
//
// A raw identifier (an email, a CRM id, a person's name) never leaves the
// client. Only its HMAC image under the agent key is transmitted or stored:
//
//	hmacKey = BLAKE2b-256(agentKey)
//	id      = hex(HMAC-SHA256(hmacKey, domain + ":" + raw))
//
// The derivation is one-way; nothing in this package keeps a reverse mapping.
package subject

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

const (
	// AgentKeySize is the required agent key length.
	AgentKeySize = 32

	// SubjectDomain is the default domain separator for subject ids.
	SubjectDomain = "xache:subject:v1"

	// EntityDomain is the domain separator for entity keys.
	EntityDomain = "xache:entity:v1"
)

// DeriveSubjectID derives the subject id for rawSubjectID in SubjectDomain.
func DeriveSubjectID(agentKey []byte, rawSubjectID string) (string, error) {
	return DeriveSubjectIDWithDomain(agentKey, rawSubjectID, SubjectDomain)
}

// DeriveSubjectIDWithDomain derives a 64-character lowercase hex id for
// rawSubjectID under a caller-chosen domain separator.
func DeriveSubjectIDWithDomain(agentKey []byte, rawSubjectID, domain string) (string, error) {
	mac, err := newMAC(agentKey)
	if err != nil {
		return "", err
	}
	return sum(mac, domain, rawSubjectID), nil
}

// DeriveEntityKey derives the key for an entity name. Names are trimmed and
// lowercased first, so "Alice Chen" and "  alice chen " share a key.
func DeriveEntityKey(agentKey []byte, entityName string) (string, error) {
	return DeriveSubjectIDWithDomain(agentKey, NormalizeEntityName(entityName), EntityDomain)
}

// NormalizeEntityName applies the entity-name normalization.
func NormalizeEntityName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BatchDeriveSubjectIDs maps every raw id to its subject id.
func BatchDeriveSubjectIDs(agentKey []byte, rawSubjectIDs []string) (map[string]string, error) {
	mac, err := newMAC(agentKey)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rawSubjectIDs))
	for _, raw := range rawSubjectIDs {
		if _, ok := out[raw]; ok {
			continue
		}
		out[raw] = sum(mac, SubjectDomain, raw)
	}
	return out, nil
}

// BatchDeriveEntityKeys maps every normalized entity name to its key.
func BatchDeriveEntityKeys(agentKey []byte, entityNames []string) (map[string]string, error) {
	mac, err := newMAC(agentKey)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entityNames))
	for _, name := range entityNames {
		n := NormalizeEntityName(name)
		if _, ok := out[n]; ok {
			continue
		}
		out[n] = sum(mac, EntityDomain, n)
	}
	return out, nil
}

type macState struct {
	key [blake2b.Size256]byte
}

func newMAC(agentKey []byte) (*macState, error) {
	if len(agentKey) != AgentKeySize {
		return nil, fmt.Errorf("%w: agent key must be %d bytes, got %d", errdefs.ErrInvalidKeyLength, AgentKeySize, len(agentKey))
	}
	return &macState{key: blake2b.Sum256(agentKey)}, nil
}

func sum(m *macState, domain, value string) string {
	h := hmac.New(sha256.New, m.key[:])
	h.Write([]byte(domain))
	h.Write([]byte{':'})
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
