package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the CPG retrieval engine.
type Config struct {
	Index    IndexConfig    `yaml:"index"`
	Retrieve RetrieveConfig `yaml:"retrieve"`
	Answer   AnswerConfig   `yaml:"answer"`
	LLM      LLMConfig      `yaml:"llm"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// IndexConfig holds indexing configuration.
type IndexConfig struct {
	Source       string `yaml:"source"`        // path to the guideline PDF
	Output       string `yaml:"output"`        // path of the corpus artifact
	ChunkSize    int    `yaml:"chunk_size"`    // target chunk length in characters
	ChunkOverlap int    `yaml:"chunk_overlap"` // characters shared between adjacent chunks
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK       int     `yaml:"top_k"`
	ScoreFloor float64 `yaml:"score_floor"` // results scoring at or below this are discarded
}

// AnswerConfig holds answer-composition configuration.
type AnswerConfig struct {
	SnippetLength   int    `yaml:"snippet_length"`   // citation snippet truncation, in characters
	FallbackSources int    `yaml:"fallback_sources"` // excerpts concatenated by the deterministic fallback
	PDFBaseURL      string `yaml:"pdf_base_url"`     // base path for #page= deep links
}

// LLMConfig holds generation-service configuration. The API key is read from
// the environment variable named by APIKeyEnv; its absence is a supported
// state that routes every answer through the excerpt fallback.
type LLMConfig struct {
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"` // optional OpenAI-compatible endpoint override
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Source:       "static/cpg.pdf",
			Output:       "static/cpg-chunks.json",
			ChunkSize:    1200,
			ChunkOverlap: 200,
		},
		Retrieve: RetrieveConfig{
			TopK:       6,
			ScoreFloor: 0.2,
		},
		Answer: AnswerConfig{
			SnippetLength:   500,
			FallbackSources: 2,
			PDFBaseURL:      "/cpg.pdf",
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for cpg.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "cpg.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".cpg", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
