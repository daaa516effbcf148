package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Index.ChunkSize != 1200 {
		t.Errorf("expected ChunkSize=1200, got %d", cfg.Index.ChunkSize)
	}
	if cfg.Index.ChunkOverlap != 200 {
		t.Errorf("expected ChunkOverlap=200, got %d", cfg.Index.ChunkOverlap)
	}
	if cfg.Retrieve.TopK != 6 {
		t.Errorf("expected TopK=6, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.ScoreFloor != 0.2 {
		t.Errorf("expected ScoreFloor=0.2, got %f", cfg.Retrieve.ScoreFloor)
	}
	if cfg.Answer.SnippetLength != 500 {
		t.Errorf("expected SnippetLength=500, got %d", cfg.Answer.SnippetLength)
	}
	if cfg.Answer.FallbackSources != 2 {
		t.Errorf("expected FallbackSources=2, got %d", cfg.Answer.FallbackSources)
	}
	if cfg.LLM.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("expected APIKeyEnv=OPENAI_API_KEY, got %s", cfg.LLM.APIKeyEnv)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cpg.yaml")

	content := `
index:
  chunk_size: 800
  chunk_overlap: 100
retrieve:
  top_k: 10
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Index.ChunkSize != 800 {
		t.Errorf("expected ChunkSize=800, got %d", cfg.Index.ChunkSize)
	}
	if cfg.Index.ChunkOverlap != 100 {
		t.Errorf("expected ChunkOverlap=100, got %d", cfg.Index.ChunkOverlap)
	}
	if cfg.Retrieve.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieve.TopK)
	}
	// Settings absent from the file keep their defaults.
	if cfg.Answer.SnippetLength != 500 {
		t.Errorf("expected SnippetLength=500, got %d", cfg.Answer.SnippetLength)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cpg.yaml")

	content := `
server:
  port: 9090
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected Port=9090, got %d", cfg.Server.Port)
	}
}
