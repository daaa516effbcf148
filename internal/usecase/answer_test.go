package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/phuslu/log"

	"cpgrag/internal/domain"
)

type fakeRetriever struct {
	results []domain.ScoredChunk
}

func (f *fakeRetriever) Search(query string, k int) []domain.ScoredChunk {
	if len(f.results) > k {
		return f.results[:k]
	}
	return f.results
}

type fakeLLM struct {
	answer string
	err    error
	calls  int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return f.GenerateWithSystem(ctx, "", prompt)
}

func (f *fakeLLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

func testLogger() *log.Logger {
	return &log.Logger{Level: log.PanicLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

func testParams() AnswerParams {
	return AnswerParams{
		TopK:            6,
		SnippetLength:   500,
		FallbackSources: 2,
		PDFBaseURL:      "/cpg.pdf",
		Timeout:         time.Second,
	}
}

func scored(id string, page int, text string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{ID: id, Page: page, PrintedPage: page, Text: text},
		Score: score,
	}
}

func TestAnswer_RefusalWithoutSources(t *testing.T) {
	llm := &fakeLLM{answer: "should not be called"}
	uc, err := NewAnswerUseCase(&fakeRetriever{}, llm, testLogger(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	answer := uc.Answer(context.Background(), "unrelated question")

	if answer.Answer != RefusalAnswer {
		t.Errorf("expected refusal answer, got %q", answer.Answer)
	}
	if answer.Sources == nil || len(answer.Sources) != 0 {
		t.Errorf("expected empty non-nil sources, got %v", answer.Sources)
	}
	if llm.calls != 0 {
		t.Errorf("generation service must not be called with no sources, got %d calls", llm.calls)
	}
}

func TestAnswer_GenerationSuccess(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.ScoredChunk{
		scored("page-12-chunk-0", 12, "Adrenaline 1 mg IV every 4 minutes.", 1.45),
	}}
	llm := &fakeLLM{answer: "Summary: give adrenaline (p. 12)."}
	uc, err := NewAnswerUseCase(retriever, llm, testLogger(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	answer := uc.Answer(context.Background(), "adrenaline dose")

	if answer.Answer != "Summary: give adrenaline (p. 12)." {
		t.Errorf("expected generated answer, got %q", answer.Answer)
	}
	if llm.calls != 1 {
		t.Errorf("expected exactly one generation attempt, got %d", llm.calls)
	}
	if len(answer.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(answer.Sources))
	}
	src := answer.Sources[0]
	if src.ID != "page-12-chunk-0" || src.Page != 12 || src.PrintedPage != 12 {
		t.Errorf("unexpected source identity: %+v", src)
	}
	if src.PDFURL != "/cpg.pdf#page=12" {
		t.Errorf("expected deep link /cpg.pdf#page=12, got %s", src.PDFURL)
	}
}

func TestAnswer_FallbackOnServiceFailure(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.ScoredChunk{
		scored("page-3-chunk-0", 3, "First excerpt text.", 2.0),
		scored("page-9-chunk-1", 9, "Second excerpt text.", 1.5),
		scored("page-20-chunk-0", 20, "Third excerpt text.", 1.0),
	}}
	llm := &fakeLLM{err: errors.New("upstream 503")}
	uc, err := NewAnswerUseCase(retriever, llm, testLogger(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	answer := uc.Answer(context.Background(), "anything")

	want := "Page 3: First excerpt text.\n\nPage 9: Second excerpt text."
	if answer.Answer != want {
		t.Errorf("expected deterministic fallback\n%q\ngot\n%q", want, answer.Answer)
	}
	// Sources still reflect the full retrieved set.
	if len(answer.Sources) != 3 {
		t.Errorf("expected 3 sources, got %d", len(answer.Sources))
	}
	if llm.calls != 1 {
		t.Errorf("expected a single generation attempt before fallback, got %d", llm.calls)
	}
}

func TestAnswer_FallbackWhenUnconfigured(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.ScoredChunk{
		scored("page-5-chunk-0", 5, "Only excerpt.", 1.0),
	}}
	uc, err := NewAnswerUseCase(retriever, nil, testLogger(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	answer := uc.Answer(context.Background(), "anything")

	if answer.Answer != "Page 5: Only excerpt." {
		t.Errorf("expected fallback excerpt answer, got %q", answer.Answer)
	}
}

func TestAnswer_FallbackOnEmptyGeneration(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.ScoredChunk{
		scored("page-5-chunk-0", 5, "Only excerpt.", 1.0),
	}}
	llm := &fakeLLM{answer: "   \n"}
	uc, err := NewAnswerUseCase(retriever, llm, testLogger(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	answer := uc.Answer(context.Background(), "anything")

	if answer.Answer != "Page 5: Only excerpt." {
		t.Errorf("expected fallback for blank generation, got %q", answer.Answer)
	}
}

func TestAnswer_SnippetTruncation(t *testing.T) {
	long := strings.Repeat("x", 620)
	short := strings.Repeat("y", 500)
	retriever := &fakeRetriever{results: []domain.ScoredChunk{
		scored("page-1-chunk-0", 1, long, 2.0),
		scored("page-2-chunk-0", 2, short, 1.0),
	}}
	uc, err := NewAnswerUseCase(retriever, nil, testLogger(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	answer := uc.Answer(context.Background(), "anything")

	if len(answer.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(answer.Sources))
	}
	truncated := answer.Sources[0].Snippet
	if truncated != strings.Repeat("x", 500)+"..." {
		t.Errorf("expected 500 chars plus ellipsis, got %d chars ending %q",
			len(truncated), truncated[len(truncated)-5:])
	}
	if answer.Sources[1].Snippet != short {
		t.Error("snippet at the limit should be copied verbatim")
	}
}

func TestAnswer_PromptContainsExcerptsAndHeadings(t *testing.T) {
	uc, err := NewAnswerUseCase(&fakeRetriever{}, nil, testLogger(), testParams())
	if err != nil {
		t.Fatal(err)
	}

	results := []domain.ScoredChunk{
		scored("page-41-chunk-2", 41, "Treat the patient per protocol.", 1.0),
	}
	prompt, err := uc.buildPrompt("how to treat", results)
	if err != nil {
		t.Fatal(err)
	}

	for _, fragment := range []string{
		"Question: how to treat",
		"(page 41)",
		"Treat the patient per protocol.",
		"Summary, Priorities, Assessment",
		"Management, Transport, Limitations",
		"Paraphrase",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestFallbackAnswer_LimitAndFormat(t *testing.T) {
	sources := make([]domain.Source, 0, 4)
	for i := 1; i <= 4; i++ {
		sources = append(sources, domain.Source{
			PrintedPage: i,
			Snippet:     fmt.Sprintf("excerpt %d", i),
		})
	}

	got := fallbackAnswer(sources, 2)
	want := "Page 1: excerpt 1\n\nPage 2: excerpt 2"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := fallbackAnswer(nil, 2); !strings.Contains(got, "No guideline excerpts") {
		t.Errorf("expected no-excerpts message, got %q", got)
	}
}
