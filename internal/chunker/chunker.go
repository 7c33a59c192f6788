// Package chunker splits extracted document text into bounded, overlapping
// segments suitable for language-model input. Splitting prefers natural
// boundaries (paragraphs, then lines, then sentences, then words) but always
// honors the hard length cap, and is deterministic for a given input.
package chunker

import (
	"errors"
	"strings"
)

// Defaults for chunk sizing, in characters.
const (
	DefaultMaxChars     = 4000
	DefaultOverlapChars = 200
)

// ErrEmptyInput is returned when the input text is empty or consists only
// of whitespace. The pipeline treats this as fatal: there is nothing to
// generate content from.
var ErrEmptyInput = errors.New("input text is empty or whitespace-only")

// separators, in order of preference. The empty string is the terminal
// fallback meaning "split at the hard cap".
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker produces overlapping text chunks with a hard maximum length.
type Chunker struct {
	maxChars     int
	overlapChars int
}

// New creates a Chunker with the given limits. Non-positive maxChars or a
// negative overlap fall back to the defaults; overlap is clamped below
// maxChars so consecutive chunks always advance.
func New(maxChars, overlapChars int) *Chunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlapChars < 0 {
		overlapChars = DefaultOverlapChars
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}
	return &Chunker{maxChars: maxChars, overlapChars: overlapChars}
}

// Split divides text into an ordered, non-empty sequence of chunks, each at
// most maxChars long, with overlapChars shared between consecutive chunks.
// Returns ErrEmptyInput when the text is empty or whitespace-only.
func (c *Chunker) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	runes := []rune(text)
	if len(runes) <= c.maxChars {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.maxChars
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// Cut at the best natural boundary within the window.
		cut := c.findCut(runes[start:end])
		chunks = append(chunks, string(runes[start:start+cut]))

		// Advance, keeping overlapChars of trailing context.
		next := start + cut - c.overlapChars
		if next <= start {
			next = start + cut
		}
		start = next
	}

	return chunks, nil
}

// findCut returns the cut position (rune count) within the window, choosing
// the last occurrence of the most-preferred separator present in the second
// half of the window. Restricting to the second half avoids degenerate tiny
// chunks when a paragraph break sits near the window start.
func (c *Chunker) findCut(window []rune) int {
	s := string(window)
	half := len(s) / 2

	for _, sep := range separators {
		if sep == "" {
			break
		}
		idx := strings.LastIndex(s, sep)
		if idx > half {
			// Cut after the separator so the boundary text stays with
			// the earlier chunk.
			return len([]rune(s[:idx+len(sep)]))
		}
	}

	// No acceptable boundary: hard cut at the cap.
	return len(window)
}
