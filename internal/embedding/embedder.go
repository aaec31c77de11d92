package embedding

import (
	"fmt"
	"time"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding/openai"
	"docqa/internal/embedding/tfidf"
)

// New assembles the embedder selected by configuration.
func New(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Dimension: cfg.OpenAI.Dimension,
			BatchSize: cfg.OpenAI.BatchSize,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai embedder: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}
