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

// Package client provides an HTTP client for the Xache API that signs
// every request with the agent's DID.
//
// # Basic Usage
//
//	a, err := auth.NewAssemblerFromPrivateKey(agentDID, privateKeyHex)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := client.New("https://api.xache.xyz", a, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Post(ctx, "/v1/memory/store", []byte(`{"data":"..."}`))
//
// # Paths
//
// The path passed to Do, Get or Post, query string included, is exactly
// what gets signed, so it must already be in the form the server will see.
// Do rejects paths that net/http would re-encode.
//
// # Payment Challenges
//
// A 402 response is returned as *PaymentRequiredError. The caller settles
// the challenge and retries with the challenge id as idempotency key:
//
//	var pr *client.PaymentRequiredError
//	if errors.As(err, &pr) {
//	    // settle pr.ChallengeID, then
//	    resp, err = c.Post(ctx, path, body, auth.WithIdempotencyKey(pr.ChallengeID))
//	}
//
// The client never retries on its own.
package client
