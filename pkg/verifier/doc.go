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

// Package verifier verifies requests signed with agent DIDs.
//
// A request carries X-Agent-DID, X-Sig and X-Ts. The verifier rebuilds the
// canonical message from the method, request target and body, checks the
// timestamp window, and verifies the signature under the key the DID names:
//
//	v := verifier.NewDefaultDIDVerifier(nil, nil)
//	agentDID, err := v.VerifyRequest(ctx, req, body)
//	if err != nil {
//	    return err
//	}
//
// # Keys
//
// EVM DIDs name an address. The signer's public key is recovered from the
// 65-byte EIP-191 signature and its address compared with the DID's.
// Solana DIDs name the base58 ed25519 public key itself.
//
// KeySelector and SignatureVerifier can be replaced, for example to consult
// a registry of revoked agents before accepting a key.
package verifier
