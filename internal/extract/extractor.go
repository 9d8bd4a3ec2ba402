// Package extract provides plain-text extraction from resume document formats.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates a file extension with no extraction strategy.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ParseError indicates document bytes that are not valid for their declared format.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type extractFunc func(content []byte) (string, error)

// Extractor extracts plain text from document files.
// Formats are selected by file extension; new formats are added by
// registering a strategy, without touching callers.
type Extractor struct {
	formats map[string]extractFunc
}

// NewExtractor returns an Extractor supporting PDF and DOCX.
func NewExtractor() *Extractor {
	return &Extractor{
		formats: map[string]extractFunc{
			".pdf":  extractPDF,
			".docx": extractDOCX,
		},
	}
}

// Supports reports whether ext (with leading dot, any case) has an extraction strategy.
func (e *Extractor) Supports(ext string) bool {
	_, ok := e.formats[strings.ToLower(ext)]
	return ok
}

// Extract reads the file at path and returns its text content.
// Returns an error if the file cannot be read, the format is unsupported,
// or the bytes cannot be parsed.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	fn, ok := e.formats[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return fn(content)
}
