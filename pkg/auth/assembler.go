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

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/signer"
)

// Clock returns the current time.
type Clock func() time.Time

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(a *Assembler) {
		if c != nil {
			a.now = c
		}
	}
}

// Assembler produces authentication headers for one agent.
type Assembler struct {
	agentDID string
	parsed   did.Parsed
	signer   signer.Signer
	now      Clock
}

// NewAssembler creates an assembler that signs as agentDID through s.
func NewAssembler(agentDID string, s signer.Signer, opts ...Option) (*Assembler, error) {
	parsed, err := did.Parse(agentDID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("signer cannot be nil")
	}

	a := &Assembler{
		agentDID: agentDID,
		parsed:   parsed,
		signer:   s,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewAssemblerFromPrivateKey creates an assembler around a hex-encoded key
// for the DID's chain.
func NewAssemblerFromPrivateKey(agentDID, privateKeyHex string, opts ...Option) (*Assembler, error) {
	parsed, err := did.Parse(agentDID)
	if err != nil {
		return nil, err
	}
	s, err := signer.NewPrivateKeySigner(parsed.Chain, privateKeyHex)
	if err != nil {
		return nil, err
	}
	return NewAssembler(agentDID, s, opts...)
}

// DID returns the agent DID the assembler signs as.
func (a *Assembler) DID() string {
	return a.agentDID
}

// Chain returns the chain of the agent DID.
func (a *Assembler) Chain() did.Chain {
	return a.parsed.Chain
}

// Headers signs a request and returns its headers. The timestamp is checked
// again after signing, so a signer that takes longer than the window yields
// errdefs.ErrClockSkew instead of headers the server would reject.
func (a *Assembler) Headers(ctx context.Context, method, path, body string, opts ...HeaderOption) (Headers, error) {
	ts := a.now().UnixMilli()

	sig, err := signer.SignRequestWith(ctx, a.signer, method, path, body, ts, a.agentDID)
	if err != nil {
		return Headers{}, err
	}
	if err := signer.ValidateTimestamp(ts, a.now().UnixMilli()); err != nil {
		return Headers{}, err
	}

	h := Headers{
		AgentDID:  a.agentDID,
		Signature: sig,
		Timestamp: ts,
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h, nil
}

// Zero wipes the key when the signer holds one in memory.
func (a *Assembler) Zero() {
	if z, ok := a.signer.(interface{ Zero() }); ok {
		z.Zero()
	}
}
