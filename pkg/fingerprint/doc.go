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

// Package fingerprint computes cognitive fingerprints: keyed, deterministic
// summaries of memory content that can be stored in plaintext and probed
// without revealing the content.
//
// A fingerprint has four topic hashes derived from the top concepts, a
// 64-dimensional keyed random projection of the term counts, a coarse
// category and the concepts themselves. The concepts stay client side;
// only Metadata and the embedding leave the process.
//
// The stopword list and category rules ship as rules_v1.json. Every SDK that
// produces cog-v1 fingerprints reads the same asset, so the same content and
// agent key give the same fingerprint everywhere.
package fingerprint
