package retriever

import (
	"sort"
	"strings"

	"cpgrag/internal/adapter/analyzer"
	"cpgrag/internal/adapter/corpus"
	"cpgrag/internal/domain"
)

// Length boost applied to tokens of lengthBoostMin characters or more:
// longer tokens are usually clinical terms and carry more signal than short
// common words that slipped past the stop-word filter.
const (
	lengthBoostMin    = 6
	lengthBoost       = 1.2
	coverageBonusMax  = 0.5
	DefaultScoreFloor = 0.2
)

// LexicalRetriever scores chunks by literal substring matching. It is pure
// and carries no mutable state, so it is safe for concurrent use.
type LexicalRetriever struct {
	store      *corpus.Store
	tokenizer  *analyzer.Tokenizer
	scoreFloor float64
}

func NewLexicalRetriever(store *corpus.Store, tokenizer *analyzer.Tokenizer, scoreFloor float64) *LexicalRetriever {
	return &LexicalRetriever{
		store:      store,
		tokenizer:  tokenizer,
		scoreFloor: scoreFloor,
	}
}

// Search scores every chunk in the corpus against the query and returns the
// top-k results above the score floor, best first. Ties keep corpus order,
// so results are deterministic.
func (r *LexicalRetriever) Search(query string, k int) []domain.ScoredChunk {
	tokens := uniqueTokens(r.tokenizer.Tokenize(query))
	if len(tokens) == 0 {
		return nil
	}

	var results []domain.ScoredChunk
	for _, chunk := range r.store.Chunks() {
		score := scoreChunk(chunk.Text, tokens)
		if score > r.scoreFloor {
			results = append(results, domain.ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k >= 0 && len(results) > k {
		results = results[:k]
	}

	return results
}

// scoreChunk sums weighted substring-occurrence counts for each query token
// and adds a coverage bonus proportional to the fraction of distinct tokens
// present. Matching is substring-based, not word-boundary based: "rest" also
// matches inside "restore".
func scoreChunk(chunkText string, tokens []string) float64 {
	textLower := strings.ToLower(chunkText)

	score := 0.0
	found := 0
	for _, token := range tokens {
		occurrences := strings.Count(textLower, token)
		if occurrences == 0 {
			continue
		}
		found++
		boost := 1.0
		if len(token) >= lengthBoostMin {
			boost = lengthBoost
		}
		score += float64(occurrences) * boost
	}

	score += float64(found) / float64(len(tokens)) * coverageBonusMax
	return score
}

// uniqueTokens deduplicates tokens preserving first-occurrence order.
func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	unique := tokens[:0]
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		unique = append(unique, token)
	}
	return unique
}
