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

// Package server provides HTTP middleware that authenticates Xache agent
// requests.
//
// # Basic Usage
//
//	middleware := server.NewDIDAuthMiddleware()
//
//	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    // Extract verified DID from context
//	    agentDID, ok := server.GetAgentDIDFromContext(r.Context())
//	    if !ok {
//	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
//	        return
//	    }
//	    fmt.Fprintf(w, "Authenticated as: %s", agentDID)
//	})
//
//	http.Handle("/v1/", middleware.Wrap(handler))
//
// # Optional Verification
//
//	// Allow requests without any auth headers to pass through
//	middleware.SetOptional(true)
//
// # Custom Error Handler
//
//	middleware.SetErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
//	    http.Error(w, "Forbidden", http.StatusForbidden)
//	})
//
// # How It Works
//
// For each request the middleware:
//
//  1. Skips verification for OPTIONS requests (CORS preflight)
//  2. Buffers the body and restores it for the next handler
//  3. Parses X-Agent-DID, X-Sig and X-Ts
//  4. Rebuilds the canonical message from the method, RequestURI and body
//  5. Checks the timestamp window and the signature for the DID's chain
//  6. Stores the verified DID in the request context
//
// Failures are logged with the claimed DID and answered with 401.
//
// # Probe API
//
// NewProbeRouter mounts a fingerprint index behind the middleware on a chi
// router. Stored memory ids are namespaced by the verified DID, so agents
// only ever see their own fingerprints.
//
//	idx, _ := probe.Open("probe.db")
//	http.ListenAndServe(":8080", server.NewProbeRouter(idx, server.NewDIDAuthMiddleware()))
package server
