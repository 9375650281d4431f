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

// Package errdefs defines the error kinds shared by the xache-go packages.
//
// Every failure in the signing and derivation core is a local, deterministic
// validation failure. Callers match kinds with errors.Is; the packages wrap
// these sentinels with context using fmt.Errorf and %w.
package errdefs

import "errors"

var (
	// ErrInvalidFormat reports a malformed DID, key encoding or subject context.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidKeyLength reports a key that is not the byte length the operation requires.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrUnsupportedChain reports a DID chain tag outside {evm, sol}.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrClockSkew reports a timestamp outside the allowed validity window.
	ErrClockSkew = errors.New("clock skew")

	// ErrInvalidContext reports a subject context whose invariants do not hold.
	ErrInvalidContext = errors.New("invalid subject context")

	// ErrSignerMismatch reports a signer whose address differs from the DID address.
	ErrSignerMismatch = errors.New("signer does not match DID")

	// ErrReadOnlySigner is returned by signers that can only report an address.
	ErrReadOnlySigner = errors.New("signer is read-only")

	// ErrUnsupportedOperation is returned when a signer lacks a capability for its chain.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidSignature reports a signature that does not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMissingHeaders reports a request without the authentication headers.
	ErrMissingHeaders = errors.New("missing authentication headers")
)
