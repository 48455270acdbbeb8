// Package extract converts uploaded resume bytes into normalized plain text.
//
// Extraction is best-effort by contract: malformed bytes, unsupported formats and
// renderer failures all degrade to empty text instead of surfacing an error, because
// the pipeline treats empty/short text as a distinct valid state (needs OCR).
package extract

import (
	"log/slog"
	"strings"
)

// Extractor dispatches raw document bytes to a format-specific text path.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Text extracts plain text from data. mimeType and fileName are both optional hints;
// when neither identifies the format the PDF path is tried as a best-effort fallback.
// Legacy .doc is unsupported and yields empty text.
func (e *Extractor) Text(data []byte, mimeType, fileName string) string {
	mime := strings.ToLower(mimeType)
	name := strings.ToLower(fileName)

	switch {
	case strings.Contains(mime, "pdf") || strings.HasSuffix(name, ".pdf"):
		return e.pdfText(data)
	case strings.Contains(mime, "word") || strings.HasSuffix(name, ".docx"):
		return e.docxText(data)
	case strings.HasSuffix(name, ".doc"):
		e.logger.Warn("extract.unsupported_format", "file_name", fileName)
		return ""
	default:
		return e.pdfText(data)
	}
}
