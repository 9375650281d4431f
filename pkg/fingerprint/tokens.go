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
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Term is a distinct filtered token and the number of times it occurs.
type Term struct {
	Text  string
	Count int
}

// tokenize lowercases text and splits it on every rune that is neither a
// letter nor a digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

func containsPhrase(haystack, phrase string) bool {
	return strings.Contains(haystack, phrase)
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Terms returns the distinct concept candidates in first-occurrence order.
// Short tokens, pure digits and stopwords are dropped.
func (r *Rules) Terms(tokens []string) []Term {
	index := make(map[string]int, len(tokens))
	var terms []Term
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < r.MinTokenLength || isDigits(tok) || r.isStopword(tok) {
			continue
		}
		if i, ok := index[tok]; ok {
			terms[i].Count++
			continue
		}
		index[tok] = len(terms)
		terms = append(terms, Term{Text: tok, Count: 1})
	}
	return terms
}

// topConcepts ranks terms by count, ties by first occurrence, and keeps k.
func topConcepts(terms []Term, k int) []string {
	ranked := make([]Term, len(terms))
	copy(ranked, terms)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]string, len(ranked))
	for i, t := range ranked {
		out[i] = t.Text
	}
	return out
}
