package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/heuristics"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "paragraph", cfg.Chunker.Type)
	assert.Equal(t, 500, cfg.Chunker.TargetWords)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 1, cfg.Retrieval.MaxPassages)
	assert.Equal(t, 10, cfg.Retrieval.FallbackTopN)
	assert.Equal(t, heuristics.InsurancePolicy(), cfg.Heuristics)
	assert.Equal(t, "extractive", cfg.Answer.Type)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
embedder:
  type: openai
  openai:
    model: nomic-embed-text
    base_url: http://localhost:11434/v1
retrieval:
  max_passages: -1
  reembed_candidates: true
heuristics:
  name: hospital
  min_keyword_length: 2
  marker_prefixes: ["Treatment of"]
answer:
  type: openai
log:
  level: debug
`), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 32, cfg.Embedder.OpenAI.BatchSize)
	assert.Equal(t, -1, cfg.Retrieval.MaxPassages)
	assert.True(t, cfg.Retrieval.ReembedCandidates)
	assert.Equal(t, []string{"Treatment of"}, cfg.Heuristics.MarkerPrefixes)
	assert.Empty(t, cfg.Heuristics.Shortcuts)
	require.NotNil(t, cfg.Answer.OpenAI)
	assert.Equal(t, "gpt-4o-mini", cfg.Answer.OpenAI.Model)
	assert.Equal(t, 300, cfg.Answer.OpenAI.MaxTokens)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("embedder: [unclosed"), 0o644))
	_, err := Load(p)
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(p, Default()))
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefault_WritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "docqa", "config.yaml"), path)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)
}
