package main

import (
	"fmt"
	"log/slog"
	"time"

	"docqa/internal/answer"
	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/heuristics"
	"docqa/internal/retrieval"
	"docqa/internal/service"
	"docqa/internal/store"
	"docqa/internal/summarizer"
)

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

// buildService assembles the pipeline described by cfg.
func buildService(cfg *config.AppConfig, logger *slog.Logger) (*service.RAGService, error) {
	emb, err := embedding.New(cfg.Embedder)
	if err != nil {
		return nil, err
	}

	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "paragraph", "":
		ch = chunker.NewParagraphChunker(cfg.Chunker.TargetWords)
	case "sentence":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Chunker.Type)
	}

	rules, err := heuristics.New(cfg.Heuristics)
	if err != nil {
		return nil, fmt.Errorf("heuristics: %w", err)
	}

	opts := []service.Option{service.WithLogger(logger)}
	switch cfg.Summarizer.Type {
	case "frequency", "":
		opts = append(opts, service.WithSummarizer(summarizer.NewFrequencySummarizer(), cfg.Summarizer.MaxSentences))
	case "none":
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	switch cfg.Answer.Type {
	case "extractive", "":
		opts = append(opts, service.WithGenerator(answer.Extractive{}))
	case "openai":
		if cfg.Answer.OpenAI == nil {
			return nil, fmt.Errorf("openai answer config missing")
		}
		gen, err := answer.NewOpenAI(answer.OpenAIConfig{
			BaseURL:            cfg.Answer.OpenAI.BaseURL,
			APIKeyEnv:          cfg.Answer.OpenAI.APIKeyEnv,
			Model:              cfg.Answer.OpenAI.Model,
			MaxTokens:          cfg.Answer.OpenAI.MaxTokens,
			MaxContextPassages: cfg.Answer.OpenAI.MaxContextPassages,
			Timeout:            time.Duration(cfg.Answer.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai answer generator: %w", err)
		}
		opts = append(opts, service.WithGenerator(gen))
	default:
		return nil, fmt.Errorf("unknown answer generator: %s", cfg.Answer.Type)
	}

	st := store.New()
	r := retrieval.New(st, rules,
		retrieval.WithTopK(cfg.Retrieval.TopK),
		retrieval.WithMaxPassages(cfg.Retrieval.MaxPassages),
		retrieval.WithFallbackTopN(cfg.Retrieval.FallbackTopN),
		retrieval.WithSnippetMaxChars(cfg.Retrieval.SnippetMaxChars),
		retrieval.WithReembedCandidates(cfg.Retrieval.ReembedCandidates),
		retrieval.WithLogger(logger),
	)
	return service.NewRAGService(ch, emb, st, r, opts...), nil
}
