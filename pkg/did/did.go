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

package did

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// Chain identifies the signature scheme an agent DID is bound to.
type Chain string

const (
	// ChainEVM selects secp256k1 personal-message signatures.
	ChainEVM Chain = "evm"

	// ChainSolana selects raw ed25519 signatures.
	ChainSolana Chain = "sol"
)

const (
	scheme = "did"
	method = "agent"
)

var (
	evmAddressPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	solanaAddressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// AgentDID is an agent identifier of the form did:agent:<chain>:<address>.
type AgentDID string

// Parsed is the decoded form of an AgentDID.
type Parsed struct {
	Chain   Chain
	Address string
}

// String returns the DID string.
func (d AgentDID) String() string {
	return string(d)
}

// Chain returns the chain tag of a valid DID, or "" if the DID is invalid.
func (d AgentDID) Chain() Chain {
	p, err := Parse(string(d))
	if err != nil {
		return ""
	}
	return p.Chain
}

// Address returns the address of a valid DID, or "" if the DID is invalid.
func (d AgentDID) Address() string {
	p, err := Parse(string(d))
	if err != nil {
		return ""
	}
	return p.Address
}

// Parse splits and validates a DID.
//
// The string must have exactly four colon-separated segments
// did:agent:<chain>:<address>, the chain must be evm or sol and the address
// must match the chain's address format.
func Parse(s string) (Parsed, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Parsed{}, fmt.Errorf("%w: DID must have 4 segments, got %d", errdefs.ErrInvalidFormat, len(parts))
	}
	if parts[0] != scheme || parts[1] != method {
		return Parsed{}, fmt.Errorf("%w: DID must start with %s:%s:", errdefs.ErrInvalidFormat, scheme, method)
	}

	chain := Chain(parts[2])
	address := parts[3]

	switch chain {
	case ChainEVM:
		if !evmAddressPattern.MatchString(address) {
			return Parsed{}, fmt.Errorf("%w: invalid evm address %q", errdefs.ErrInvalidFormat, address)
		}
	case ChainSolana:
		if !solanaAddressPattern.MatchString(address) {
			return Parsed{}, fmt.Errorf("%w: invalid sol address %q", errdefs.ErrInvalidFormat, address)
		}
	default:
		return Parsed{}, fmt.Errorf("%w: %w: %q", errdefs.ErrInvalidFormat, errdefs.ErrUnsupportedChain, parts[2])
	}

	return Parsed{Chain: chain, Address: address}, nil
}

// Validate reports whether s is a well-formed agent DID.
func Validate(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// New builds a DID from a chain tag and wallet address and validates it.
func New(chain Chain, address string) (AgentDID, error) {
	s := fmt.Sprintf("%s:%s:%s:%s", scheme, method, chain, address)
	if _, err := Parse(s); err != nil {
		return "", err
	}
	return AgentDID(s), nil
}
