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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/xache-protocol/xache-go/pkg/auth"
	"github.com/xache-protocol/xache-go/pkg/client"
	"github.com/xache-protocol/xache-go/pkg/config"
	"github.com/xache-protocol/xache-go/pkg/fingerprint"
	"github.com/xache-protocol/xache-go/pkg/keys"
	"github.com/xache-protocol/xache-go/pkg/server"
)

var memories = map[string]string{
	"pref-theme": "Alice prefers dark mode in the editor. Alice prefers tea.",
	"trip-paris": "The meeting happened yesterday in Paris",
	"deploy-fri": "We decided to ship the release on Friday",
}

// This example stores fingerprints on a verify-server and probes them back
// with signed requests. Set XACHE_DID and XACHE_PRIVATE_KEY first.
func main() {
	fmt.Println("Xache Go - Signed Client Example")
	fmt.Println("================================")

	ctx := context.Background()

	fmt.Println("\n1. Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	fmt.Printf("   API URL: %s\n", cfg.APIURL)
	fmt.Printf("   DID:     %s\n", cfg.DID)

	fmt.Println("\n2. Creating signed client...")
	assembler, err := auth.NewAssemblerFromPrivateKey(cfg.DID, cfg.PrivateKey)
	if err != nil {
		log.Fatalf("Failed to create assembler: %v", err)
	}
	defer assembler.Zero()

	c, err := client.New(cfg.APIURL, assembler, cfg.HTTPClient())
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	fmt.Printf("   Signing as %s (%s)\n", c.GetAgentDID(), assembler.Chain())

	fmt.Println("\n3. Deriving agent key...")
	material, err := keys.DeriveHex(cfg.PrivateKey, cfg.DID)
	if err != nil {
		log.Fatalf("Failed to derive key material: %v", err)
	}
	defer material.Zero()
	fmt.Println("   ✓ Agent key derived")

	fmt.Println("\n4. Storing fingerprints...")
	for id, content := range memories {
		fp, err := fingerprint.Generate(content, material.AgentKey[:])
		if err != nil {
			log.Fatalf("Failed to fingerprint %s: %v", id, err)
		}
		body, err := json.Marshal(fp)
		if err != nil {
			log.Fatalf("Failed to encode fingerprint: %v", err)
		}
		if _, err := call(ctx, c, http.MethodPut, "/v1/fingerprints/"+id, body); err != nil {
			fmt.Printf("   ⚠️  %v\n", err)
			fmt.Println("\nStart the verify-server example and run this again.")
			return
		}
		fmt.Printf("   ✓ %-12s category=%s topics=%v\n", id, fp.Category, fp.TopicHashes)
	}

	fmt.Println("\n5. Probing for a near-duplicate...")
	query, err := fingerprint.Generate("Does Alice prefer dark mode?", material.AgentKey[:])
	if err != nil {
		log.Fatalf("Failed to fingerprint query: %v", err)
	}
	body, err := json.Marshal(server.ProbeRequest{Fingerprint: *query, Limit: 3})
	if err != nil {
		log.Fatalf("Failed to encode probe: %v", err)
	}
	respBody, err := call(ctx, c, http.MethodPost, "/v1/probe", body)
	if err != nil {
		log.Fatalf("Probe failed: %v", err)
	}
	var resp server.ProbeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		log.Fatalf("Failed to decode probe response: %v", err)
	}
	if len(resp.Matches) == 0 {
		fmt.Println("   No matches")
	}
	for _, m := range resp.Matches {
		fmt.Printf("   %-12s score=%.4f overlap=%d category=%s\n", m.MemoryID, m.Score, m.TopicOverlap, m.Category)
	}

	fmt.Println("\n✅ Example completed!")
}

func call(ctx context.Context, c *client.Client, method, path string, body []byte) ([]byte, error) {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		var payment *client.PaymentRequiredError
		if errors.As(err, &payment) {
			return nil, fmt.Errorf("payment required (challenge %s)", payment.ChallengeID)
		}
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: http %d: %s", method, path, resp.StatusCode, b)
	}
	return b, nil
}
