package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText renders the text layer of every page and joins pages with newlines.
// Corrupt or image-only documents yield empty text, never an error.
func (e *Extractor) pdfText(data []byte) (text string) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extract.pdf.panic", "recovered", r)
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("extract.pdf.open_error", "error", err, "bytes", len(data))
		return ""
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("extract.pdf.page_error", "page", i, "error", err)
			continue
		}
		pages = append(pages, content)
	}
	return strings.TrimSpace(strings.Join(pages, "\n"))
}
