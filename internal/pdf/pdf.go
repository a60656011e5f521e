// Package pdf extracts per-page plain text from PDF files for the
// resolution pipeline.
package pdf

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPages returns one plain-text string per page, in page order. A
// page whose text cannot be extracted yields a nil element rather than an
// error: the pipeline treats missing pages as absent text.
func ExtractPages(filePath string) ([]*string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	pages := make([]*string, numPages)

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = &text
	}

	return pages, nil
}

// ExtractText extracts text from the first maxPages pages joined into a
// single string. maxPages <= 0 means all pages.
func ExtractText(filePath string, maxPages int) (string, error) {
	pages, err := ExtractPages(filePath)
	if err != nil {
		return "", err
	}
	if maxPages <= 0 || maxPages > len(pages) {
		maxPages = len(pages)
	}

	var b strings.Builder
	for _, page := range pages[:maxPages] {
		if page == nil {
			continue
		}
		b.WriteString(*page)
		b.WriteString("\n")
	}
	return b.String(), nil
}
