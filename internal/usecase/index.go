package usecase

import (
	"fmt"
	"path/filepath"
	"time"

	"cpgrag/internal/adapter/corpus"
	"cpgrag/internal/domain"
	"cpgrag/internal/port"
)

// IndexUseCase builds the corpus artifact from a source document: extract
// text per page, chunk every non-empty page, and persist the result
// wholesale. There is no incremental path; each run replaces the artifact.
type IndexUseCase struct {
	extractor    port.PageExtractor
	chunker      port.Chunker
	chunkSize    int
	chunkOverlap int
}

// NewIndexUseCase creates a new index use case. chunkSize and chunkOverlap
// are recorded in the artifact metadata for reproducibility.
func NewIndexUseCase(extractor port.PageExtractor, chunker port.Chunker, chunkSize, chunkOverlap int) *IndexUseCase {
	return &IndexUseCase{
		extractor:    extractor,
		chunker:      chunker,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// IndexResult contains the results of an indexing run.
type IndexResult struct {
	Source        string
	PagesTotal    int
	PagesChunked  int
	ChunksCreated int
}

// Index extracts sourcePath, chunks it, and writes the corpus artifact to
// outputPath atomically. Any failure aborts the run without touching an
// existing artifact.
func (u *IndexUseCase) Index(sourcePath, outputPath string, progress func(done, total int)) (*IndexResult, error) {
	pages, err := u.extractor.ExtractPages(sourcePath, progress)
	if err != nil {
		return nil, fmt.Errorf("extract source document: %w", err)
	}

	var chunks []domain.Chunk
	pagesChunked := 0
	for _, page := range pages {
		pageChunks := u.chunker.Chunk(page)
		if len(pageChunks) == 0 {
			continue
		}
		pagesChunked++
		chunks = append(chunks, pageChunks...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("source document %s yielded no text chunks", sourcePath)
	}

	c := domain.Corpus{
		CreatedAt:    time.Now().UTC(),
		Source:       filepath.Base(sourcePath),
		ChunkSize:    u.chunkSize,
		ChunkOverlap: u.chunkOverlap,
		PageCount:    pagesChunked,
		TotalChunks:  len(chunks),
		Chunks:       chunks,
	}

	if err := corpus.Write(outputPath, c); err != nil {
		return nil, fmt.Errorf("persist corpus artifact: %w", err)
	}

	return &IndexResult{
		Source:        c.Source,
		PagesTotal:    len(pages),
		PagesChunked:  pagesChunked,
		ChunksCreated: len(chunks),
	}, nil
}
