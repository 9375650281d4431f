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

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/fingerprint"
	"github.com/xache-protocol/xache-go/pkg/keys"
	"github.com/xache-protocol/xache-go/pkg/probe"
	"github.com/xache-protocol/xache-go/pkg/signer"
	"github.com/xache-protocol/xache-go/pkg/subject"
)

// Well-known test key. Never use it for real funds.
const demoKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// This example walks through the local side of an agent: identity, key
// material, subject ids and cognitive fingerprints. No network needed.
func main() {
	fmt.Println("=== Simple Agent Example ===")
	fmt.Println()
	ctx := context.Background()

	// Step 1: Derive the agent DID from its wallet key
	fmt.Println("Step 1: Creating agent DID...")
	s, err := signer.NewPrivateKeySigner(did.ChainEVM, demoKey)
	if err != nil {
		log.Fatalf("Failed to load key: %v", err)
	}
	defer s.Zero()
	address, err := s.GetAddress(ctx)
	if err != nil {
		log.Fatalf("Failed to get address: %v", err)
	}
	agentDID, err := did.New(did.ChainEVM, address)
	if err != nil {
		log.Fatalf("Failed to build DID: %v", err)
	}
	fmt.Printf("  DID: %s\n\n", agentDID)

	// Step 2: Derive key material
	fmt.Println("Step 2: Deriving key material...")
	material, err := keys.DeriveHex(demoKey, agentDID.String())
	if err != nil {
		log.Fatalf("Failed to derive keys: %v", err)
	}
	defer material.Zero()
	fmt.Printf("  Agent key prefix:      %s...\n", hex.EncodeToString(material.AgentKey[:4]))
	fmt.Printf("  Encryption key prefix: %s...\n\n", hex.EncodeToString(material.EncryptionKey[:4]))

	// Step 3: Pseudonymize subjects
	fmt.Println("Step 3: Deriving subject ids...")
	ids, err := subject.BatchDeriveSubjectIDs(material.AgentKey[:], []string{"user-123", "user-456"})
	if err != nil {
		log.Fatalf("Failed to derive subject ids: %v", err)
	}
	for raw, id := range ids {
		fmt.Printf("  %s -> %s\n", raw, id)
	}
	sc, err := subject.NewSubjectContext(material.AgentKey[:], "user-123", "acme")
	if err != nil {
		log.Fatalf("Failed to build subject context: %v", err)
	}
	if err := subject.ValidateContext(sc); err != nil {
		log.Fatalf("Invalid context: %v", err)
	}
	fmt.Printf("  ✓ Context %s for tenant %s\n\n", sc.Scope, sc.TenantID)

	// Step 4: Fingerprint some memories
	fmt.Println("Step 4: Generating fingerprints...")
	idx, err := probe.Open(":memory:")
	if err != nil {
		log.Fatalf("Failed to open index: %v", err)
	}
	defer idx.Close()

	memories := []struct{ id, content string }{
		{"m1", "Alice prefers dark mode in the editor. Alice prefers tea."},
		{"m2", "The meeting happened yesterday in Paris"},
		{"m3", `{"note":"Alice prefers light mode","source":"chat"}`},
	}
	for _, m := range memories {
		var content any = m.content
		if json.Valid([]byte(m.content)) {
			content = json.RawMessage(m.content)
		}
		fp, err := fingerprint.Generate(content, material.AgentKey[:])
		if err != nil {
			log.Fatalf("Failed to fingerprint %s: %v", m.id, err)
		}
		if err := idx.Put(ctx, m.id, fp); err != nil {
			log.Fatalf("Failed to index %s: %v", m.id, err)
		}
		fmt.Printf("  %s category=%-10s concepts=%v\n", m.id, fp.Category, fp.Concepts)
	}
	fmt.Println()

	// Step 5: Probe
	fmt.Println("Step 5: Probing for 'Alice prefers dark mode'...")
	query, err := fingerprint.Generate("Alice prefers dark mode", material.AgentKey[:])
	if err != nil {
		log.Fatalf("Failed to fingerprint query: %v", err)
	}
	matches, err := idx.Probe(ctx, query, probe.Options{Limit: 3})
	if err != nil {
		log.Fatalf("Probe failed: %v", err)
	}
	for _, m := range matches {
		fmt.Printf("  ✓ %s score=%.4f overlap=%d\n", m.MemoryID, m.Score, m.TopicOverlap)
	}

	// Step 6: Only metadata leaves the agent in plaintext
	fmt.Println("\nStep 6: Plaintext-safe metadata...")
	meta, err := json.MarshalIndent(query.Metadata(), "  ", "  ")
	if err != nil {
		log.Fatalf("Failed to encode metadata: %v", err)
	}
	fmt.Printf("  %s\n", meta)

	fmt.Println("\n=== Example completed successfully! ===")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. See multi-key-agent for Solana, wallet and external signers")
	fmt.Println("  2. Run verify-server and signed-client for the HTTP round trip")
}
