package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docqa/internal/heuristics"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	TargetWords       int    `yaml:"target_words"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// RetrievalConfig tunes the query pipeline. A negative MaxPassages disables
// the passage cap.
type RetrievalConfig struct {
	TopK              int  `yaml:"top_k"`
	MaxPassages       int  `yaml:"max_passages"`
	FallbackTopN      int  `yaml:"fallback_top_n"`
	SnippetMaxChars   int  `yaml:"snippet_max_chars"`
	ReembedCandidates bool `yaml:"reembed_candidates"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// OpenAIChatConfig configures the OpenAI-compatible answer generator.
type OpenAIChatConfig struct {
	BaseURL            string `yaml:"base_url"`
	APIKeyEnv          string `yaml:"api_key_env"`
	Model              string `yaml:"model"`
	MaxTokens          int    `yaml:"max_tokens"`
	MaxContextPassages int    `yaml:"max_context_passages"`
	TimeoutSecs        int    `yaml:"timeout_secs"`
}

// AnswerConfig selects the answer generator.
type AnswerConfig struct {
	Type   string            `yaml:"type"`
	OpenAI *OpenAIChatConfig `yaml:"openai,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig     `yaml:"embedder"`
	Chunker    ChunkerConfig      `yaml:"chunker"`
	Retrieval  RetrievalConfig    `yaml:"retrieval"`
	Heuristics heuristics.Profile `yaml:"heuristics"`
	Summarizer SummarizerConfig   `yaml:"summarizer"`
	Answer     AnswerConfig       `yaml:"answer"`
	Log        LogConfig          `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

// Default returns the built-in configuration: offline TF-IDF embeddings,
// paragraph chunks, the insurance-policy rule table and extractive answers.
func Default() *AppConfig {
	cfg := &AppConfig{
		Embedder:   EmbedderConfig{Type: "tfidf"},
		Chunker:    ChunkerConfig{Type: "paragraph"},
		Heuristics: heuristics.InsurancePolicy(),
		Summarizer: SummarizerConfig{Type: "frequency"},
		Answer:     AnswerConfig{Type: "extractive"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
		if o.BatchSize == 0 {
			o.BatchSize = 32
		}
	}

	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "paragraph"
	}
	if cfg.Chunker.TargetWords == 0 {
		cfg.Chunker.TargetWords = 500
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}

	r := &cfg.Retrieval
	if r.TopK == 0 {
		r.TopK = 3
	}
	if r.MaxPassages == 0 {
		r.MaxPassages = 1
	}
	if r.FallbackTopN == 0 {
		r.FallbackTopN = 10
	}
	if r.SnippetMaxChars == 0 {
		r.SnippetMaxChars = 500
	}

	// a missing heuristics section means the default rule table
	h := &cfg.Heuristics
	if h.Name == "" && h.MinKeywordLength == 0 && len(h.MarkerPrefixes) == 0 && len(h.Shortcuts) == 0 {
		*h = heuristics.InsurancePolicy()
	}

	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}

	if cfg.Answer.Type == "" {
		cfg.Answer.Type = "extractive"
	}
	if cfg.Answer.Type == "openai" {
		if cfg.Answer.OpenAI == nil {
			cfg.Answer.OpenAI = &OpenAIChatConfig{}
		}
		o := cfg.Answer.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "gpt-4o-mini"
		}
		if o.MaxTokens == 0 {
			o.MaxTokens = 300
		}
		if o.MaxContextPassages == 0 {
			o.MaxContextPassages = 5
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 60
		}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
