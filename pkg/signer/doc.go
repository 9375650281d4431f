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

// Package signer builds and signs the canonical request message used to
// authenticate agents against the Xache API.
//
// # Canonical Message
//
// Every authenticated request signs the newline-joined string
//
//	METHOD
//	PATH
//	hex(sha256(body))
//	timestampMs
//	DID
//
// The server rebuilds this string, so method, path and body are used exactly
// as the caller supplied them. A request without a payload hashes the empty
// string.
//
// # Signing
//
// The DID's chain tag selects the algorithm:
//
//   - evm: EIP-191 personal_sign over the UTF-8 message with secp256k1,
//     65-byte r || s || v signature, v in {27, 28}
//   - sol: ed25519 over the raw UTF-8 bytes, 64-byte signature; the key is a
//     32-byte seed or a 64-byte seed || public key blob
//
// Signatures are returned as lowercase hex without a 0x prefix.
//
//	sig, err := signer.SignRequest("POST", "/v1/memory/store", body, ts, agentDID, privateKeyHex)
//
// # Pluggable Signers
//
// SignRequestWith accepts any Signer and produces the same bytes as
// SignRequest for the same key:
//
//   - PrivateKeySigner: raw key in memory (EVM or Solana)
//   - ExternalSigner: caller-supplied functions (KMS, HSM, remote process)
//   - WalletProviderSigner: an EIP-1193 style wallet
//   - ReadOnlySigner: address only, every signing call fails
//
// The signer's address must match the DID address.
//
// # Timestamps
//
// ValidateTimestamp accepts a timestamp within five minutes of now in either
// direction, to tolerate clock skew on both sides.
//
// # Error Handling
//
// Errors wrap the sentinels in package errdefs:
//
//   - ErrUnsupportedChain: DID chain tag is not evm or sol
//   - ErrInvalidKeyLength: EVM key is not 32 bytes, Solana key not 32 or 64
//   - ErrInvalidFormat: malformed DID or key encoding
//   - ErrSignerMismatch: signer address differs from the DID address
//   - ErrClockSkew: timestamp outside the window
package signer
