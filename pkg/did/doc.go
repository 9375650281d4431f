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

// Package did parses and validates agent DIDs.
//
// An agent DID names the wallet that signs on the agent's behalf:
//
//	did:agent:evm:0x2c7536E3605D9C16a7a3D7b1898e529396a65c23
//	did:agent:sol:5KJvsngHeMpm884wtkJNzQGaCErckhHJBGFsvd3VyK5q
//
// The chain tag decides which signature algorithm applies everywhere
// downstream: evm selects secp256k1 personal-message signatures and sol
// selects raw ed25519 signatures. Accept and reject decisions are part of
// the cross-SDK contract, so Parse applies exactly the same rules as the
// other language implementations and performs no normalization.
package did
