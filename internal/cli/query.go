package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cpgrag/internal/adapter/analyzer"
	"cpgrag/internal/adapter/corpus"
	"cpgrag/internal/adapter/retriever"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the corpus and show raw retrieval results",
	Long: `Score every chunk against the query and print the top results with
their scores and pages. Useful for inspecting retrieval quality without the
answer-composition layer.

Examples:
  cpgrag query -q "adrenaline dose"
  cpgrag query -q "stroke assessment" --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

// queryResult is a flattened result row for CLI output.
type queryResult struct {
	ID          string  `json:"id"`
	Page        int     `json:"page"`
	PrintedPage int     `json:"printed_page"`
	Score       float64 `json:"score"`
	Text        string  `json:"text"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := corpus.Load(resolvePath(cfg.Index.Output))
	if err != nil {
		return fmt.Errorf("no usable corpus. Run 'cpgrag index' first: %w", err)
	}

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	lex := retriever.NewLexicalRetriever(st, analyzer.NewTokenizer(), cfg.Retrieve.ScoreFloor)
	chunks := lex.Search(queryText, topK)

	results := make([]queryResult, 0, len(chunks))
	for _, c := range chunks {
		results = append(results, queryResult{
			ID:          c.Chunk.ID,
			Page:        c.Chunk.Page,
			PrintedPage: c.Chunk.PrintedPage,
			Score:       c.Score,
			Text:        c.Chunk.Text,
		})
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] %s p.%d (score: %.2f) ---\n", i+1, r.ID, r.PrintedPage, r.Score)
		text := r.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
