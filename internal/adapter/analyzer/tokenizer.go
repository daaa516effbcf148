package analyzer

import (
	"strconv"
	"strings"
)

// Tokenizer normalizes free-text queries into search tokens.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		stopwords: defaultStopwords(),
	}
}

// Tokenize lowercases the query, strips everything outside [a-z0-9], splits
// on whitespace, and drops short tokens, stop-words, and pure numbers.
// A query of nothing but filtered tokens yields an empty slice, which is a
// defined terminal state for retrieval, not an error.
func (t *Tokenizer) Tokenize(text string) []string {
	var scrubbed strings.Builder
	scrubbed.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			scrubbed.WriteRune(r)
		} else {
			scrubbed.WriteByte(' ')
		}
	}

	words := strings.Fields(scrubbed.String())
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// isNumeric reports whether the token parses entirely as a number. Numeric
// page lookups are served by an exact-match feature outside the retriever,
// so such tokens carry no lexical signal here.
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// defaultStopwords returns the closed set of common English function words
// excluded from query tokenization.
func defaultStopwords() map[string]struct{} {
	stops := []string{
		"the", "and", "or", "of", "to", "in", "for", "on", "with",
		"a", "an", "at", "by", "as", "be", "is", "are", "was", "were",
		"from", "that", "this", "it", "can", "may", "if", "per",
		"up", "down",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
