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

// Category is the coarse kind of a memory, assigned by keyword rules.
type Category string

const (
	CategoryPreference   Category = "preference"
	CategoryFact         Category = "fact"
	CategoryEvent        Category = "event"
	CategoryProcedure    Category = "procedure"
	CategoryRelationship Category = "relationship"
	CategoryObservation  Category = "observation"
	CategoryDecision     Category = "decision"
	CategoryGoal         Category = "goal"
	CategoryConstraint   Category = "constraint"
	CategoryReference    Category = "reference"
	CategorySummary      Category = "summary"
	CategoryHandoff      Category = "handoff"
	CategoryPattern      Category = "pattern"
	CategoryFeedback     Category = "feedback"
	CategoryUnknown      Category = "unknown"
)

var categories = []Category{
	CategoryPreference,
	CategoryFact,
	CategoryEvent,
	CategoryProcedure,
	CategoryRelationship,
	CategoryObservation,
	CategoryDecision,
	CategoryGoal,
	CategoryConstraint,
	CategoryReference,
	CategorySummary,
	CategoryHandoff,
	CategoryPattern,
	CategoryFeedback,
	CategoryUnknown,
}

// Categories lists every category, unknown last.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Classify returns the category of the first rule with a keyword present in
// tokens as a whole word or phrase.
func (r *Rules) Classify(tokens []string) Category {
	if len(tokens) == 0 {
		return CategoryUnknown
	}
	haystack := " " + joinTokens(tokens) + " "
	for _, rule := range r.Categories {
		for _, phrase := range rule.phrases {
			if containsPhrase(haystack, phrase) {
				return rule.Category
			}
		}
	}
	return CategoryUnknown
}
