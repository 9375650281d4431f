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

// Package transport signs requests at the http.RoundTripper layer.
//
// Client in package client is the usual entry point. Use SigningTransport
// when requests are built by code you do not control, such as a generated
// API client that only accepts an *http.Client:
//
//	a, _ := auth.NewAssemblerFromPrivateKey(agentDID, privateKeyHex)
//	httpClient := transport.NewHTTPClient(a, 30*time.Second)
//
// Every outgoing request gets X-Agent-DID, X-Sig and X-Ts computed over the
// method, the request target as written on the wire and the body. Mutating
// requests without an Idempotency-Key get a fresh one.
package transport
