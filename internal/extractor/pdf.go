package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF documents, page by page.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDFExtractor creates a PDF text extractor.
// If logger is nil, a default logger will be used.
func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{
		logger: logger.With(slog.String("component", "pdf_extractor")),
	}
}

// Ensure PDFExtractor implements the Extractor interface
var _ Extractor = (*PDFExtractor)(nil)

// Extract implements Extractor.Extract for PDF content.
// Pages that yield no text are skipped silently; an unreadable document
// returns an error naming no page (the caller attributes the filename).
func (e *PDFExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("failed to open PDF",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page doesn't void the document.
			e.logger.Warn("failed to extract page text",
				slog.String("filename", filename),
				slog.Int("page", i),
				slog.String("error", err.Error()))
			continue
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	e.logger.Debug("extracted PDF text",
		slog.String("filename", filename),
		slog.Int("pages", reader.NumPage()),
		slog.Int("chars", sb.Len()))

	return sb.String(), nil
}
