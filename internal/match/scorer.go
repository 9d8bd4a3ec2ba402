// Package match implements keyword matching over extracted resume text.
package match

import "strings"

// Scorer scores resume text by case-insensitive substring presence of keywords.
type Scorer struct{}

// NewScorer returns a new Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score reports which keywords occur in text and how many do.
// Matching is raw substring containment on lower-cased input, so "art"
// matches inside "Spartan"; this is the compatibility contract, not
// word-boundary search. matched preserves the keywords' input order and
// original casing. score counts matched keywords, not occurrences.
func (s *Scorer) Score(text string, keywords []string) (matched []string, score int) {
	if text == "" || len(keywords) == 0 {
		return nil, 0
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched, len(matched)
}
