package port

import "cpgrag/internal/domain"

// Retriever defines the interface for searching the corpus.
type Retriever interface {
	// Search scores every chunk against the query and returns the top-k
	// results above the relevance floor, best first. A query that produces
	// no usable tokens returns an empty result set; Search never fails.
	Search(query string, k int) []domain.ScoredChunk
}
