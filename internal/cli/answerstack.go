package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/phuslu/log"

	"cpgrag/internal/adapter/analyzer"
	"cpgrag/internal/adapter/corpus"
	"cpgrag/internal/adapter/llm"
	"cpgrag/internal/adapter/retriever"
	"cpgrag/internal/port"
	"cpgrag/internal/usecase"
)

// buildAnswerUseCase assembles the full retrieval-and-answer stack: corpus
// loaded eagerly (fail fast if the artifact is missing or corrupt), lexical
// retriever, and the generation client when a credential is present.
func buildAnswerUseCase(logger *log.Logger) (*usecase.AnswerUseCase, error) {
	cfg := GetConfig()

	st, err := corpus.Load(resolvePath(cfg.Index.Output))
	if err != nil {
		return nil, fmt.Errorf("no usable corpus. Run 'cpgrag index' first: %w", err)
	}

	lex := retriever.NewLexicalRetriever(st, analyzer.NewTokenizer(), cfg.Retrieve.ScoreFloor)

	var generator port.LLM
	if apiKey := os.Getenv(cfg.LLM.APIKeyEnv); apiKey != "" {
		generator = llm.NewOpenAIClient(apiKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		logger.Info().Str("model", cfg.LLM.Model).Msg("generation service configured")
	} else {
		logger.Info().Str("env", cfg.LLM.APIKeyEnv).
			Msg("no generation credential, answers will use the excerpt fallback")
	}

	return usecase.NewAnswerUseCase(lex, generator, logger, usecase.AnswerParams{
		TopK:            cfg.Retrieve.TopK,
		SnippetLength:   cfg.Answer.SnippetLength,
		FallbackSources: cfg.Answer.FallbackSources,
		PDFBaseURL:      cfg.Answer.PDFBaseURL,
		Timeout:         time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
}
