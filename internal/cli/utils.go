// Package cli provides CLI output utilities for Resumatch.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/resumatch/internal/models"
)

// OutputFormat is the format for filter result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one result per line.
	OutputCompact OutputFormat = "compact"
)

// WriteFilterResults writes filter results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteFilterResults(w io.Writer, response *models.FilterResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeFilterResultsCompact(w, response)
		return nil
	default:
		writeFilterResultsText(w, response)
		return nil
	}
}

func writeFilterResultsText(w io.Writer, response *models.FilterResponse) {
	fmt.Fprintf(w, "\n%s (%d stored)\n", response.Message, response.TotalResumes)
	if len(response.KeywordsSearched) > 0 {
		fmt.Fprintf(w, "Keywords: %s\n", strings.Join(response.KeywordsSearched, ", "))
	}
	for i, m := range response.MatchedResumes {
		fmt.Fprintf(w, "\n%d. %s (score %d)\n", i+1, m.Filename, m.Score)
		fmt.Fprintf(w, "   matched: %s\n", strings.Join(m.MatchedKeywords, ", "))
	}
	fmt.Fprintln(w)
}

func writeFilterResultsCompact(w io.Writer, response *models.FilterResponse) {
	for _, m := range response.MatchedResumes {
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.Score, m.Filename, strings.Join(m.MatchedKeywords, ","))
	}
}
