// Package retrieval answers a question against one stored document by
// chaining an exact-match shortcut, the lexical prefilter, candidate-scoped
// vector search and snippet extraction.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/heuristics"
	"docqa/internal/lexical"
	"docqa/internal/snippet"
	"docqa/internal/store"
	"docqa/internal/vectorstore/memory"
)

const (
	DefaultTopK        = 3
	DefaultMaxPassages = 1
)

// Route names the path a query took through the retriever.
type Route string

const (
	RouteNone       Route = "none"
	RouteExactMatch Route = "exact_match"
	RouteSemantic   Route = "semantic"
)

// Result is the outcome of one query.
type Result struct {
	Route      Route
	Candidates int
	Fallback   bool
	Passages   []domain.Passage
}

// Texts returns the passage texts in order.
func (r Result) Texts() []string {
	out := make([]string, len(r.Passages))
	for i, p := range r.Passages {
		out[i] = p.Text
	}
	return out
}

type Option func(*Retriever)

// WithMaxPassages caps the passages returned; n <= 0 removes the cap.
func WithMaxPassages(n int) Option {
	return func(r *Retriever) { r.maxPassages = n }
}

// WithTopK sets the default number of vector hits when a query passes zero.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithFallbackTopN sets how many leading chunks are searched when no chunk
// matches the question lexically.
func WithFallbackTopN(n int) Option {
	return func(r *Retriever) { r.fallbackTopN = n }
}

// WithSnippetMaxChars bounds snippet length in runes.
func WithSnippetMaxChars(n int) Option {
	return func(r *Retriever) { r.snippetMaxChars = n }
}

// WithReembedCandidates embeds candidate chunks afresh on every query instead
// of reading their vectors from the document index.
func WithReembedCandidates(on bool) Option {
	return func(r *Retriever) { r.reembed = on }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Retriever) {
		if l != nil {
			r.logger = l
		}
	}
}

type Retriever struct {
	store           *store.Store
	rules           *heuristics.Rules
	prefilter       *lexical.Prefilter
	extractor       *snippet.Extractor
	topK            int
	maxPassages     int
	fallbackTopN    int
	snippetMaxChars int
	reembed         bool
	logger          *slog.Logger
}

func New(st *store.Store, rules *heuristics.Rules, opts ...Option) *Retriever {
	if rules == nil {
		rules = heuristics.Default()
	}
	r := &Retriever{
		store:       st,
		rules:       rules,
		topK:        DefaultTopK,
		maxPassages: DefaultMaxPassages,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.prefilter = lexical.NewPrefilter(rules, r.fallbackTopN)
	r.extractor = snippet.NewExtractor(rules, r.snippetMaxChars)
	return r
}

// Retrieve returns passage texts for the question. Unknown documents yield an
// empty result.
func (r *Retriever) Retrieve(ctx context.Context, documentID, question string, topK int) ([]string, error) {
	res, err := r.Search(ctx, documentID, question, topK)
	if err != nil {
		return nil, err
	}
	return res.Texts(), nil
}

// Search runs the full pipeline. topK <= 0 uses the configured default.
// Embedding failures are returned as *domain.EmbeddingError.
func (r *Retriever) Search(ctx context.Context, documentID, question string, topK int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	empty := Result{Route: RouteNone}
	doc, ok := r.store.Get(documentID)
	if !ok {
		r.logger.Debug("retrieve: unknown document", "doc_id", documentID)
		return empty, nil
	}
	if strings.TrimSpace(question) == "" || len(doc.Chunks) == 0 {
		return empty, nil
	}
	if topK <= 0 {
		topK = r.topK
	}

	// exact match
	texts := make([]string, len(doc.Chunks))
	for i, ch := range doc.Chunks {
		texts[i] = ch.Text
	}
	if i, hit := r.rules.Shortcut(question, texts); hit {
		ch := doc.Chunks[i]
		r.logger.Debug("retrieve: exact match", "doc_id", documentID, "chunk", ch.ChunkID)
		return Result{
			Route:      RouteExactMatch,
			Candidates: 1,
			Passages:   []domain.Passage{{Chunk: ch, Text: ch.Text}},
		}, nil
	}

	// lexical filter
	candidates := r.prefilter.Rank(doc.Chunks, question)
	fallback := lexical.IsFallback(candidates)
	r.logger.Debug("retrieve: lexical filter",
		"doc_id", documentID, "candidates", len(candidates), "fallback", fallback)

	// embed candidates
	vectors, err := r.candidateVectors(ctx, doc, candidates)
	if err != nil {
		return Result{}, err
	}

	// vector search
	qv, err := doc.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return Result{}, domain.NewEmbeddingError(doc.Embedder.Name(), err)
	}
	if len(qv) != 1 {
		return Result{}, domain.NewEmbeddingError(doc.Embedder.Name(),
			fmt.Errorf("expected 1 question vector, got %d", len(qv)))
	}
	idx, err := memory.Build(vectors)
	if err != nil {
		return Result{}, fmt.Errorf("build candidate index: %w", err)
	}
	hits, err := idx.Search(qv[0], topK)
	if err != nil {
		return Result{}, fmt.Errorf("search candidate index: %w", err)
	}

	// snippet extract
	var passages []domain.Passage
	for _, h := range hits {
		ch := candidates[h.Position].Chunk
		for _, s := range r.extractor.Extract(ch.Text, question) {
			passages = append(passages, domain.Passage{Chunk: ch, Text: s, Distance: h.Distance})
		}
	}
	if r.maxPassages > 0 && len(passages) > r.maxPassages {
		passages = passages[:r.maxPassages]
	}
	r.logger.Debug("retrieve: done",
		"doc_id", documentID, "route", RouteSemantic, "hits", len(hits), "passages", len(passages))
	return Result{
		Route:      RouteSemantic,
		Candidates: len(candidates),
		Fallback:   fallback,
		Passages:   passages,
	}, nil
}

func (r *Retriever) candidateVectors(ctx context.Context, doc *store.Document, candidates []lexical.Candidate) ([][]float32, error) {
	if !r.reembed {
		if vecs, ok := indexVectors(doc, candidates); ok {
			return vecs, nil
		}
	}
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Chunk.Text
	}
	vecs, err := doc.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, domain.NewEmbeddingError(doc.Embedder.Name(), err)
	}
	if len(vecs) != len(texts) {
		return nil, domain.NewEmbeddingError(doc.Embedder.Name(),
			fmt.Errorf("expected %d vectors, got %d", len(texts), len(vecs)))
	}
	return vecs, nil
}

// indexVectors reads candidate vectors from the document index. It reports
// false when a candidate's Index does not address that chunk's stored vector.
func indexVectors(doc *store.Document, candidates []lexical.Candidate) ([][]float32, bool) {
	if doc.Index == nil || doc.Index.Len() != len(doc.Chunks) {
		return nil, false
	}
	vecs := make([][]float32, len(candidates))
	for i, c := range candidates {
		pos := c.Chunk.Index
		if pos < 0 || pos >= len(doc.Chunks) || doc.Chunks[pos].Text != c.Chunk.Text {
			return nil, false
		}
		if vecs[i] = doc.Index.Vector(pos); len(vecs[i]) == 0 {
			return nil, false
		}
	}
	return vecs, true
}
