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
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

// rulesV1 is the language-neutral rule set shared by every SDK. Changing it
// changes fingerprints, so edits require a new version.
//
//go:embed rules_v1.json
var rulesV1 []byte

// Rules is the decoded classification and concept-extraction asset.
type Rules struct {
	Version        string         `json:"version"`
	MinTokenLength int            `json:"min_token_length"`
	Stopwords      []string       `json:"stopwords"`
	Categories     []CategoryRule `json:"categories"`

	stopwords map[string]struct{}
}

// CategoryRule assigns Category when any keyword occurs as a whole word or phrase.
type CategoryRule struct {
	Category Category `json:"category"`
	Keywords []string `json:"keywords"`

	phrases []string
}

var defaultRules = mustLoadRules(rulesV1)

// DefaultRules returns the embedded rule set. The value must not be modified.
func DefaultRules() *Rules {
	return defaultRules
}

// LoadRules decodes and validates a rules asset.
func LoadRules(data []byte) (*Rules, error) {
	var r Rules
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	if r.Version == "" {
		return nil, fmt.Errorf("rules: missing version")
	}
	if r.MinTokenLength < 1 {
		return nil, fmt.Errorf("rules: min_token_length must be positive")
	}

	r.stopwords = make(map[string]struct{}, len(r.Stopwords))
	for _, w := range r.Stopwords {
		r.stopwords[strings.ToLower(w)] = struct{}{}
	}

	for i := range r.Categories {
		rule := &r.Categories[i]
		if !rule.Category.Valid() || rule.Category == CategoryUnknown {
			return nil, fmt.Errorf("rules: invalid category %q", rule.Category)
		}
		for _, kw := range rule.Keywords {
			tokens := tokenize(kw)
			if len(tokens) == 0 {
				return nil, fmt.Errorf("rules: empty keyword in %s", rule.Category)
			}
			rule.phrases = append(rule.phrases, " "+strings.Join(tokens, " ")+" ")
		}
	}
	return &r, nil
}

func mustLoadRules(data []byte) *Rules {
	r, err := LoadRules(data)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rules) isStopword(token string) bool {
	_, ok := r.stopwords[token]
	return ok
}
