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

package fingerprint

import "math"

// Cosine returns the cosine similarity of the two embeddings, or 0 when
// either is the zero vector.
func Cosine(a, b *Fingerprint) float64 {
	var dot, na, nb float64
	for i := 0; i < EmbeddingDim; i++ {
		dot += a.Embedding[i] * b.Embedding[i]
		na += a.Embedding[i] * a.Embedding[i]
		nb += b.Embedding[i] * b.Embedding[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopicOverlap counts the topic hashes of a that also occur in b.
func TopicOverlap(a, b *Fingerprint) int {
	n := 0
	for _, x := range a.TopicHashes {
		for _, y := range b.TopicHashes {
			if x == y {
				n++
				break
			}
		}
	}
	return n
}
