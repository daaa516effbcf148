package extractor

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"cpgrag/internal/domain"
)

// PDFExtractor extracts per-page plain text from a PDF document.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages returns the plain text of every page, 1-indexed, in order.
// Failure to open or parse the document is fatal; a page that yields no text
// (image-only, or a content stream the parser rejects) comes back empty and
// is skipped later by the chunker.
func (e *PDFExtractor) ExtractPages(path string, progress func(done, total int)) ([]domain.PageText, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]domain.PageText, 0, total)

	for num := 1; num <= total; num++ {
		page := domain.PageText{Number: num}

		p := r.Page(num)
		if !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err == nil {
				page.Text = text
			}
		}

		pages = append(pages, page)
		if progress != nil {
			progress(num, total)
		}
	}

	return pages, nil
}
