// Package models defines core data structures for filter requests and results.
package models

import (
	"errors"
	"strings"
)

// ErrEmptyKeywordSet indicates a filter request with no usable keyword after trimming.
var ErrEmptyKeywordSet = errors.New("no usable keywords provided")

// FilterRequest is a request to filter stored resumes by keywords.
type FilterRequest struct {
	Keywords []string `json:"keywords"`
}

// Validate normalizes the keyword list in place: trims whitespace, drops blank
// entries, and deduplicates case-insensitively keeping the first occurrence's
// original casing. Returns ErrEmptyKeywordSet when nothing usable remains.
func (r *FilterRequest) Validate() error {
	seen := make(map[string]struct{}, len(r.Keywords))
	cleaned := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		folded := strings.ToLower(kw)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		cleaned = append(cleaned, kw)
	}
	if len(cleaned) == 0 {
		return ErrEmptyKeywordSet
	}
	r.Keywords = cleaned
	return nil
}
