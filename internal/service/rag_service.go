package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa/internal/answer"
	"docqa/internal/domain"
	"docqa/internal/extract"
	"docqa/internal/retrieval"
	"docqa/internal/store"
	"docqa/internal/vectorstore/memory"
)

// Answer is the reply to one question.
type Answer struct {
	Question string
	Text     string
	Result   retrieval.Result
}

// RAGService ingests documents into the store and answers questions against them.
type RAGService struct {
	chunker             domain.Chunker
	embedder            domain.Embedder
	store               *store.Store
	retriever           *retrieval.Retriever
	summarizer          domain.Summarizer
	summaryMaxSentences int
	generator           answer.Generator
	extractor           *extract.Extractor
	logger              *slog.Logger
}

type Option func(*RAGService)

// WithSummarizer computes an overview for every ingested document.
func WithSummarizer(s domain.Summarizer, maxSentences int) Option {
	return func(svc *RAGService) {
		svc.summarizer = s
		svc.summaryMaxSentences = maxSentences
	}
}

func WithGenerator(g answer.Generator) Option {
	return func(svc *RAGService) {
		if g != nil {
			svc.generator = g
		}
	}
}

func WithExtractor(e *extract.Extractor) Option {
	return func(svc *RAGService) {
		if e != nil {
			svc.extractor = e
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(svc *RAGService) {
		if l != nil {
			svc.logger = l
		}
	}
}

func NewRAGService(chunker domain.Chunker, embedder domain.Embedder, st *store.Store, retriever *retrieval.Retriever, opts ...Option) *RAGService {
	svc := &RAGService{
		chunker:   chunker,
		embedder:  embedder,
		store:     st,
		retriever: retriever,
		generator: answer.Extractive{},
		extractor: extract.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Ingest chunks, embeds and indexes text under documentID. The document
// becomes visible only once fully built; on failure any previous version
// stays in place.
func (s *RAGService) Ingest(ctx context.Context, documentID, text string) error {
	return s.ingest(ctx, documentID, documentID, text)
}

// IngestUpload ingests text under a freshly generated ID.
func (s *RAGService) IngestUpload(ctx context.Context, text string) (string, error) {
	id := uuid.NewString()
	if err := s.ingest(ctx, id, "upload", text); err != nil {
		return "", err
	}
	return id, nil
}

// IngestFile extracts and ingests a local file. The document ID is the file name.
func (s *RAGService) IngestFile(ctx context.Context, path string) (string, error) {
	text, err := s.extractor.ExtractFile(path)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	id := filepath.Base(path)
	if err := s.ingest(ctx, id, path, text); err != nil {
		return "", err
	}
	return id, nil
}

// IngestURL downloads a document into dir and ingests it.
func (s *RAGService) IngestURL(ctx context.Context, rawURL, dir string) (string, error) {
	local, err := s.extractor.Fetch(ctx, rawURL, dir)
	if err != nil {
		return "", err
	}
	return s.IngestFile(ctx, local)
}

func (s *RAGService) ingest(ctx context.Context, id, source, text string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("document id is required")
	}
	started := time.Now()
	chunks, err := s.chunker.Chunk(domain.Document{ID: id, Path: source, Content: text})
	if err != nil {
		return fmt.Errorf("chunk %s: %w", id, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("chunk %s: %w", id, domain.ErrEmptyInput)
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	emb := s.embedder
	if ce, ok := emb.(domain.CorpusEmbedder); ok {
		fitted, err := ce.Fit(texts)
		if err != nil {
			return domain.NewEmbeddingError(emb.Name(), err)
		}
		emb = fitted
	}
	vectors, err := emb.Embed(ctx, texts)
	if err != nil {
		return domain.NewEmbeddingError(emb.Name(), err)
	}
	if len(vectors) != len(chunks) {
		return domain.NewEmbeddingError(emb.Name(),
			fmt.Errorf("expected %d vectors, got %d", len(chunks), len(vectors)))
	}
	idx, err := memory.Build(vectors)
	if err != nil {
		return fmt.Errorf("build index for %s: %w", id, err)
	}

	var summary string
	if s.summarizer != nil {
		summary, err = s.summarizer.Summarize(text, s.summaryMaxSentences)
		if err != nil {
			return fmt.Errorf("summarize %s: %w", id, err)
		}
	}

	s.store.Put(&store.Document{
		ID:        id,
		Source:    source,
		Chunks:    chunks,
		Index:     idx,
		Embedder:  emb,
		Summary:   summary,
		CreatedAt: time.Now(),
	})
	s.logger.Info("ingested document",
		"doc_id", id,
		"chunks", len(chunks),
		"dimension", idx.Dimension(),
		"embedder", emb.Name(),
		"elapsed", time.Since(started))
	return nil
}

// Search runs the retriever and returns the full result.
func (s *RAGService) Search(ctx context.Context, documentID, question string, topK int) (retrieval.Result, error) {
	return s.retriever.Search(ctx, documentID, question, topK)
}

// Retrieve returns passage texts; unknown documents give an empty slice.
func (s *RAGService) Retrieve(ctx context.Context, documentID, question string, topK int) ([]string, error) {
	return s.retriever.Retrieve(ctx, documentID, question, topK)
}

// Ask retrieves passages and hands them to the answer generator.
func (s *RAGService) Ask(ctx context.Context, documentID, question string) (Answer, error) {
	if _, ok := s.store.Get(documentID); !ok {
		return Answer{}, fmt.Errorf("%w: %s", domain.ErrUnknownDocument, documentID)
	}
	res, err := s.retriever.Search(ctx, documentID, question, 0)
	if err != nil {
		return Answer{}, err
	}
	text, err := s.generator.Generate(ctx, question, res.Texts())
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	s.logger.Debug("answered question", "doc_id", documentID, "route", res.Route, "passages", len(res.Passages))
	return Answer{Question: question, Text: text, Result: res}, nil
}

// AskAll answers questions in order and stops at the first error.
func (s *RAGService) AskAll(ctx context.Context, documentID string, questions []string) ([]Answer, error) {
	out := make([]Answer, 0, len(questions))
	for _, q := range questions {
		a, err := s.Ask(ctx, documentID, q)
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Summary returns the overview computed at ingestion.
func (s *RAGService) Summary(documentID string) (string, error) {
	doc, ok := s.store.Get(documentID)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownDocument, documentID)
	}
	return doc.Summary, nil
}

// Documents lists ingested document IDs.
func (s *RAGService) Documents() []string { return s.store.IDs() }
