// Package extractor converts raw uploaded documents into plain text.
// It defines the extraction boundary consumed by the processing pipeline
// and a PDF implementation of it.
package extractor

import (
	"context"
	"fmt"
	"strings"
)

// Extractor converts one raw document into plain text.
// Implementations may fail per document; the pipeline treats any single
// failure as fatal to the whole batch.
type Extractor interface {
	// Extract returns the plain text content of the document.
	// The raw bytes are owned by the caller and not retained.
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Document pairs a filename with its raw content for the duration of
// extraction. Contents are discarded once text has been extracted.
type Document struct {
	Filename string
	Data     []byte
}

// ExtractAll runs the extractor over each document in order and
// concatenates the results under per-document delimiter headers, so
// downstream chunks carry the originating filename as context.
// A failure on any document aborts the batch and names the file.
func ExtractAll(ctx context.Context, ex Extractor, docs []Document) (string, error) {
	var sb strings.Builder

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := ex.Extract(ctx, doc.Filename, doc.Data)
		if err != nil {
			return "", fmt.Errorf("error processing %s: %w", doc.Filename, err)
		}

		sb.WriteString(fmt.Sprintf("=== Content from %s ===\n", doc.Filename))
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
