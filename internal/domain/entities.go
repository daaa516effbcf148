package domain

import "time"

// Chunk is the unit of retrieval: a bounded slice of guideline text tied to
// the page it was extracted from.
type Chunk struct {
	ID          string `json:"id"`
	Page        int    `json:"page"`
	PrintedPage int    `json:"printed_page"`
	Text        string `json:"text"`
}

// PageText is the plain text extracted from a single source-document page.
type PageText struct {
	Number int
	Text   string
}

// Corpus is the serialized output of one indexer run. It is written wholesale
// by the indexer and treated as immutable read-only data by the retriever.
type Corpus struct {
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	ChunkSize    int       `json:"chunk_size"`
	ChunkOverlap int       `json:"chunk_overlap"`
	PageCount    int       `json:"page_count"`
	TotalChunks  int       `json:"total_chunks"`
	Chunks       []Chunk   `json:"chunks"`
}

type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Source is a citation returned alongside an answer, pointing back into the
// guideline PDF.
type Source struct {
	ID          string `json:"id"`
	Page        int    `json:"page"`
	PrintedPage int    `json:"printedPage"`
	Snippet     string `json:"snippet"`
	PDFURL      string `json:"pdfUrl"`
}

// Answer is the user-facing result of the answer-composition flow. Answer is
// always non-empty; Sources is empty only when nothing relevant was
// retrieved.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
