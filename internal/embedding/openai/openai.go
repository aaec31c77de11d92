package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docqa/internal/domain"
)

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
// Any endpoint speaking the /embeddings protocol works (OpenAI, Ollama, OpenRouter).
type Client struct {
	client    *openai.Client
	model     string
	dimension int
	batchSize int
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Dimension int
	BatchSize int
	Timeout   time.Duration
}

var _ domain.Embedder = (*Client)(nil)

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	return newClient(key, cfg), nil
}

func newClient(key string, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{
		client:    openai.NewClientWithConfig(oc),
		model:     cfg.Model,
		dimension: cfg.Dimension,
		batchSize: cfg.BatchSize,
	}
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Embed returns one vector per text, in input order. Requests are batched;
// failures are returned to the caller without retry.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		vecs, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: batch,
	}
	if c.dimension > 0 {
		req.Dimensions = c.dimension
	}
	resp, err := c.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create openai embeddings: %w", err)
	}
	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("openai embeddings returned %d vectors for %d inputs", len(resp.Data), len(batch))
	}
	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	results := make([][]float32, len(data))
	for i, datum := range data {
		if c.dimension > 0 && len(datum.Embedding) != c.dimension {
			return nil, fmt.Errorf("openai embedding dimension mismatch: expected %d, got %d", c.dimension, len(datum.Embedding))
		}
		if i > 0 && len(datum.Embedding) != len(results[0]) {
			return nil, fmt.Errorf("openai embeddings have inconsistent dimensions: %d and %d", len(results[0]), len(datum.Embedding))
		}
		results[i] = datum.Embedding
	}
	return results, nil
}
