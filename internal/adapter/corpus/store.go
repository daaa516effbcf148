package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cpgrag/internal/domain"
)

// Store holds the corpus in memory for the lifetime of the process. It is
// loaded once at startup and never mutated, so reads need no synchronization.
type Store struct {
	corpus domain.Corpus
}

// NewStore wraps an already-built corpus, bypassing the artifact on disk.
// Used by the indexer for post-build inspection and by tests.
func NewStore(c domain.Corpus) *Store {
	return &Store{corpus: c}
}

// Load reads and parses a corpus artifact. A missing or corrupt artifact is
// a fatal configuration error for the serving process: the retriever cannot
// function without it, so callers should fail fast rather than continue with
// empty results.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus artifact %s: %w", path, err)
	}

	var c domain.Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse corpus artifact %s: %w", path, err)
	}

	if len(c.Chunks) == 0 {
		return nil, fmt.Errorf("corpus artifact %s contains no chunks", path)
	}

	return &Store{corpus: c}, nil
}

// Chunks returns every chunk in corpus order. Callers must not modify the
// returned slice.
func (s *Store) Chunks() []domain.Chunk {
	return s.corpus.Chunks
}

// Meta returns the corpus with its chunk list omitted, for informational
// output.
func (s *Store) Meta() domain.Corpus {
	meta := s.corpus
	meta.Chunks = nil
	return meta
}

// Write serializes the corpus atomically: the artifact is written to a
// temporary file and renamed into place, so a failed run never leaves a
// partial artifact behind.
func Write(path string, c domain.Corpus) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create artifact directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write corpus artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace corpus artifact: %w", err)
	}

	return nil
}
