package answer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultChatModel   = "gpt-4o-mini"
	defaultMaxTokens   = 300
	defaultMaxContext  = 5
	passageSeparator   = "\n\n---\n\n"
	notCoveredFallback = "Not covered under this policy."
)

const promptTemplate = `You are a health-insurance policy expert.
Use ONLY the information in the CONTEXT below to answer the QUESTION.
Answer in one or two short sentences and mention waiting periods, limits or conditions when the context states them.
If the policy does not cover the question, say '%s'

CONTEXT:
%s

QUESTION: %s
ANSWER:`

// OpenAIConfig configures the chat-completion generator.
type OpenAIConfig struct {
	BaseURL            string
	APIKeyEnv          string
	Model              string
	MaxTokens          int
	MaxContextPassages int
	Timeout            time.Duration
}

// OpenAI generates answers through an OpenAI-compatible chat completion API.
type OpenAI struct {
	client     *openai.Client
	model      string
	maxTokens  int
	maxContext int
}

var _ Generator = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	return newOpenAI(key, cfg), nil
}

func newOpenAI(key string, cfg OpenAIConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = defaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.MaxContextPassages <= 0 {
		cfg.MaxContextPassages = defaultMaxContext
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAI{
		client:     openai.NewClientWithConfig(oc),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		maxContext: cfg.MaxContextPassages,
	}
}

// Generate sends a single-prompt completion at temperature zero. Without
// passages the model is not called.
func (g *OpenAI) Generate(ctx context.Context, question string, passages []string) (string, error) {
	if len(passages) == 0 {
		return notCoveredFallback, nil
	}
	if len(passages) > g.maxContext {
		passages = passages[:g.maxContext]
	}
	prompt := buildPrompt(question, passages)
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("create openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(question string, passages []string) string {
	return fmt.Sprintf(promptTemplate, notCoveredFallback, strings.Join(passages, passageSeparator), question)
}
