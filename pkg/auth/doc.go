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

// Package auth assembles the X-Agent-DID, X-Sig and X-Ts headers that
// authenticate a request to the Xache API.
//
// Example:
//
//	a, err := auth.NewAssemblerFromPrivateKey(agentDID, os.Getenv("XACHE_PRIVATE_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	h, err := a.Headers(ctx, "POST", "/v1/memory/store", body)
//	if err != nil {
//		log.Fatal(err)
//	}
//	h.Apply(req)
package auth
