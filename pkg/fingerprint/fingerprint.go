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

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

const (
	// Version identifies the algorithm and rules asset.
	Version = "cog-v1"

	// TopK is the maximum number of concepts kept.
	TopK = 8

	// NumTopics is the number of topic hash buckets.
	NumTopics = 4

	// EmbeddingDim is the length of the projected embedding.
	EmbeddingDim = 64

	// AgentKeySize is the required agent key length.
	AgentKeySize = 32

	blockSize = sha256.Size / 2
)

// Fingerprint is the privacy-preserving summary of one memory.
type Fingerprint struct {
	Version     string                `json:"version"`
	TopicHashes [NumTopics]uint16     `json:"topicHashes"`
	Embedding   [EmbeddingDim]float64 `json:"embedding"`
	Category    Category              `json:"category"`
	Concepts    []string              `json:"concepts"`
}

// Metadata is the part of a fingerprint that may be stored in plaintext
// next to an encrypted memory.
type Metadata struct {
	Version     string            `json:"version"`
	TopicHashes [NumTopics]uint16 `json:"topicHashes"`
	Category    Category          `json:"category"`
}

// Generate fingerprints content with the embedded rules.
func Generate(content any, agentKey []byte) (*Fingerprint, error) {
	return DefaultRules().Generate(content, agentKey)
}

// Generate fingerprints content under r. Only the key length can fail.
func (r *Rules) Generate(content any, agentKey []byte) (*Fingerprint, error) {
	if len(agentKey) != AgentKeySize {
		return nil, fmt.Errorf("%w: agent key must be %d bytes, got %d",
			errdefs.ErrInvalidKeyLength, AgentKeySize, len(agentKey))
	}

	cogSalt, err := DeriveCogSalt(agentKey)
	if err != nil {
		return nil, err
	}
	seed, err := DeriveProjectionSeed(agentKey)
	if err != nil {
		return nil, err
	}

	tokens := tokenize(Flatten(content))
	terms := r.Terms(tokens)

	fp := &Fingerprint{
		Version:  r.Version,
		Category: r.Classify(tokens),
		Concepts: topConcepts(terms, TopK),
	}
	fp.TopicHashes = topicHashes(cogSalt, fp.Concepts, fp.Category)
	fp.Embedding = project(seed, terms)
	return fp, nil
}

func topicHashes(cogSalt []byte, concepts []string, category Category) [NumTopics]uint16 {
	var out [NumTopics]uint16
	for i := range out {
		input := "topic:" + strconv.Itoa(i) + ":"
		if i < len(concepts) {
			input += concepts[i]
		} else {
			input += "#" + string(category)
		}
		mac := hmac.New(sha256.New, cogSalt)
		mac.Write([]byte(input))
		out[i] = binary.BigEndian.Uint16(mac.Sum(nil))
	}
	return out
}

// project accumulates count-weighted pseudo-random vectors per term and
// L2-normalizes the sum.
func project(seed []byte, terms []Term) [EmbeddingDim]float64 {
	var vec [EmbeddingDim]float64
	mac := hmac.New(sha256.New, seed)
	for _, t := range terms {
		w := float64(t.Count)
		for b := 0; b < EmbeddingDim/blockSize; b++ {
			mac.Reset()
			mac.Write([]byte(t.Text + ":" + strconv.Itoa(b)))
			sum := mac.Sum(nil)
			for j := 0; j < blockSize; j++ {
				u := binary.BigEndian.Uint16(sum[2*j:])
				vec[blockSize*b+j] += w * (float64(u)/32767.5 - 1)
			}
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Metadata returns the plaintext index fields.
func (f *Fingerprint) Metadata() Metadata {
	return Metadata{
		Version:     f.Version,
		TopicHashes: f.TopicHashes,
		Category:    f.Category,
	}
}

// Equal reports whether f and o are identical field by field.
func (f *Fingerprint) Equal(o *Fingerprint) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Version != o.Version || f.Category != o.Category ||
		f.TopicHashes != o.TopicHashes || f.Embedding != o.Embedding ||
		len(f.Concepts) != len(o.Concepts) {
		return false
	}
	for i := range f.Concepts {
		if f.Concepts[i] != o.Concepts[i] {
			return false
		}
	}
	return true
}
