package port

import "cpgrag/internal/domain"

type Chunker interface {
	Chunk(page domain.PageText) []domain.Chunk
}
