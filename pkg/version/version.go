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

// Package version provides version information for xache-go and the
// wire formats it produces.
package version

const (
	// Version is the current version of xache-go
	Version = "0.3.0-dev"

	// SignatureScheme names the canonical request message layout
	SignatureScheme = "xache-req-v1"

	// FingerprintVersion is the cognitive fingerprint algorithm and rules version
	FingerprintVersion = "cog-v1"

	// SubjectDomain is the default subject id derivation domain
	SubjectDomain = "xache:subject:v1"
)

// Info contains detailed version information
type Info struct {
	XacheGoVersion     string `json:"xacheGoVersion"`
	SignatureScheme    string `json:"signatureScheme"`
	FingerprintVersion string `json:"fingerprintVersion"`
	SubjectDomain      string `json:"subjectDomain"`
}

// Get returns detailed version information
func Get() Info {
	return Info{
		XacheGoVersion:     Version,
		SignatureScheme:    SignatureScheme,
		FingerprintVersion: FingerprintVersion,
		SubjectDomain:      SubjectDomain,
	}
}
