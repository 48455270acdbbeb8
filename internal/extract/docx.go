package extract

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
)

var docxTagRe = regexp.MustCompile(`<[^>]+>`)

// docxText concatenates the paragraph texts of word/document.xml with newlines.
// A DOCX file is a ZIP archive; paragraphs are <w:p> elements. Failures yield
// empty text, same policy as the PDF path.
func (e *Extractor) docxText(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("extract.docx.open_error", "error", err, "bytes", len(data))
		return ""
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			e.logger.Warn("extract.docx.entry_open_error", "error", err)
			return ""
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			e.logger.Warn("extract.docx.read_error", "error", err)
			return ""
		}
		break
	}
	if len(docXML) == 0 {
		e.logger.Warn("extract.docx.no_document_xml")
		return ""
	}

	content := string(docXML)
	// Paragraph ends become newlines, tabs survive, every other tag is stripped.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	content = docxTagRe.ReplaceAllString(content, "")
	content = unescapeXML(content)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t")
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func unescapeXML(s string) string {
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return r.Replace(s)
}
