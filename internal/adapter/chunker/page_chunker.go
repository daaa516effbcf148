package chunker

import (
	"fmt"
	"strings"

	"cpgrag/internal/domain"
)

// PageChunker splits a page's normalized text into overlapping fixed-size
// windows. Window arithmetic is done over runes so multi-byte characters
// are never split.
type PageChunker struct {
	size    int
	overlap int
}

// NewPageChunker creates a PageChunker with the given target chunk length
// and overlap, both in characters.
func NewPageChunker(size, overlap int) *PageChunker {
	return &PageChunker{
		size:    size,
		overlap: overlap,
	}
}

// Chunk splits one page into chunks. A page whose text normalizes to empty
// produces no chunks. The chunk index increments only for chunks actually
// emitted.
func (c *PageChunker) Chunk(page domain.PageText) []domain.Chunk {
	text := NormalizeWhitespace(page.Text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var chunks []domain.Chunk
	index := 0

	for start := 0; start < len(runes); {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		slice := strings.TrimSpace(string(runes[start:end]))
		if slice != "" {
			chunks = append(chunks, domain.Chunk{
				ID:          fmt.Sprintf("page-%d-chunk-%d", page.Number, index),
				Page:        page.Number,
				PrintedPage: page.Number,
				Text:        slice,
			})
			index++
		}

		if end == len(runes) {
			break
		}

		// Each window overlaps the previous by up to c.overlap characters.
		// If overlap >= size the start pointer still advances a full window,
		// so the loop terminates on any input.
		next := end - c.overlap
		if next <= start {
			next = start + c.size
		}
		start = next
	}

	return chunks
}

// NormalizeWhitespace collapses every run of whitespace, including
// non-breaking space, to a single ASCII space and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
