package port

import "cpgrag/internal/domain"

// PageExtractor yields the plain text of every page of a source document,
// 1-indexed, in order. The progress callback, when non-nil, is invoked after
// each extracted page.
type PageExtractor interface {
	ExtractPages(path string, progress func(done, total int)) ([]domain.PageText, error)
}
