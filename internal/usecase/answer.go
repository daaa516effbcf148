package usecase

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/phuslu/log"

	"cpgrag/internal/domain"
	"cpgrag/internal/port"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

// RefusalAnswer is returned when retrieval finds nothing relevant. It is the
// hard guard against generating answers with no grounding: no generation
// call is made in that case.
const RefusalAnswer = "No relevant guideline passages were found for that question. " +
	"Try rephrasing, or browse the guideline directly."

const systemPrompt = "You are a clinical decision-support assistant for ambulance crews. " +
	"You summarize clinical practice guideline excerpts accurately and conservatively, " +
	"and you never invent guidance that is not in the excerpts."

// AnswerParams holds the tunables of the answer-composition flow.
type AnswerParams struct {
	TopK            int           // chunks retrieved per question
	SnippetLength   int           // citation snippet truncation, in characters
	FallbackSources int           // excerpts concatenated by the deterministic fallback
	PDFBaseURL      string        // base path for #page= deep links
	Timeout         time.Duration // budget for the single generation attempt
}

// AnswerUseCase turns a question into a grounded answer with citations,
// using the generation service when available and a deterministic excerpt
// fallback otherwise. Callers always receive a well-formed Answer; service
// failures are absorbed here and logged, never surfaced.
type AnswerUseCase struct {
	retriever port.Retriever
	llm       port.LLM // nil when no credential is configured
	logger    *log.Logger
	params    AnswerParams
	tmpl      *template.Template
}

// NewAnswerUseCase creates a new answer use case. llm may be nil, which
// routes every answer through the fallback.
func NewAnswerUseCase(retriever port.Retriever, llm port.LLM, logger *log.Logger, params AnswerParams) (*AnswerUseCase, error) {
	tmpl, err := template.New("answer_prompt.txt").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(promptTemplates, "templates/answer_prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("parse answer prompt template: %w", err)
	}

	return &AnswerUseCase{
		retriever: retriever,
		llm:       llm,
		logger:    logger,
		params:    params,
		tmpl:      tmpl,
	}, nil
}

// Answer runs the full composition flow for one question.
func (u *AnswerUseCase) Answer(ctx context.Context, query string) domain.Answer {
	results := u.retriever.Search(query, u.params.TopK)
	if len(results) == 0 {
		return domain.Answer{Answer: RefusalAnswer, Sources: []domain.Source{}}
	}

	sources := make([]domain.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, domain.Source{
			ID:          r.Chunk.ID,
			Page:        r.Chunk.Page,
			PrintedPage: r.Chunk.PrintedPage,
			Snippet:     truncateSnippet(r.Chunk.Text, u.params.SnippetLength),
			PDFURL:      fmt.Sprintf("%s#page=%d", u.params.PDFBaseURL, r.Chunk.Page),
		})
	}

	if answer, ok := u.generate(ctx, query, results); ok {
		return domain.Answer{Answer: answer, Sources: sources}
	}

	return domain.Answer{Answer: fallbackAnswer(sources, u.params.FallbackSources), Sources: sources}
}

// generate makes the single attempt against the generation service. It
// reports false when the service is unconfigured or the attempt fails, and
// the failure goes to the log rather than the caller.
func (u *AnswerUseCase) generate(ctx context.Context, query string, results []domain.ScoredChunk) (string, bool) {
	if u.llm == nil {
		return "", false
	}

	prompt, err := u.buildPrompt(query, results)
	if err != nil {
		u.logger.Error().Err(err).Msg("building answer prompt failed, using excerpt fallback")
		return "", false
	}

	genCtx, cancel := context.WithTimeout(ctx, u.params.Timeout)
	defer cancel()

	answer, err := u.llm.GenerateWithSystem(genCtx, systemPrompt, prompt)
	if err != nil {
		u.logger.Warn().Err(err).Str("model", u.llm.ModelName()).
			Msg("generation failed, using excerpt fallback")
		return "", false
	}
	if strings.TrimSpace(answer) == "" {
		u.logger.Warn().Str("model", u.llm.ModelName()).
			Msg("generation returned empty answer, using excerpt fallback")
		return "", false
	}

	return answer, true
}

type promptExcerpt struct {
	PrintedPage int
	Text        string
}

func (u *AnswerUseCase) buildPrompt(query string, results []domain.ScoredChunk) (string, error) {
	excerpts := make([]promptExcerpt, 0, len(results))
	for _, r := range results {
		excerpts = append(excerpts, promptExcerpt{
			PrintedPage: r.Chunk.PrintedPage,
			Text:        r.Chunk.Text,
		})
	}

	data := struct {
		Query     string
		Excerpts  []promptExcerpt
		FirstPage int
	}{
		Query:     query,
		Excerpts:  excerpts,
		FirstPage: excerpts[0].PrintedPage,
	}

	var buf bytes.Buffer
	if err := u.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fallbackAnswer concatenates the printed-page citation and snippet of the
// top sources, newline-separated. Deterministic, no external calls.
func fallbackAnswer(sources []domain.Source, limit int) string {
	if len(sources) == 0 {
		return "No guideline excerpts are available for this question."
	}
	if limit > 0 && len(sources) > limit {
		sources = sources[:limit]
	}

	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, fmt.Sprintf("Page %d: %s", s.PrintedPage, s.Snippet))
	}
	return strings.Join(parts, "\n\n")
}

// truncateSnippet cuts text at limit characters, appending an ellipsis
// marker when anything was removed.
func truncateSnippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
