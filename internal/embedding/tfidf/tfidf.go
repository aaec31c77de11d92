package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"docqa/internal/domain"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Embedder is an unfitted TF-IDF vectorizer. Fit derives a vocabulary and IDF
// weights from one document's chunks and returns the Model used to embed them.
type Embedder struct {
	stopwords map[string]struct{}
}

// NewEmbedder creates an unfitted TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{stopwords: defaultStopwords()}
}

var _ domain.CorpusEmbedder = (*Embedder)(nil)

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Embed always fails: vectors only exist relative to a fitted corpus.
func (e *Embedder) Embed(_ context.Context, _ []string) ([][]float32, error) {
	return nil, domain.ErrNotFitted
}

// Fit builds the vocabulary and IDF values from the provided corpus.
func (e *Embedder) Fit(corpus []string) (domain.Embedder, error) {
	if len(corpus) == 0 {
		return nil, errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text, e.stopwords) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	// stable ordering for vocabulary
	sort.Strings(terms)

	m := &Model{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		stopwords:  e.stopwords,
	}
	n := float64(len(corpus))
	for i, term := range terms {
		m.vocabulary[term] = i
		// smoothed IDF
		m.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return m, nil
}

// Model is a TF-IDF vectorizer fitted to one corpus. It is read-only and safe
// for concurrent use.
type Model struct {
	vocabulary map[string]int
	idf        []float64
	stopwords  map[string]struct{}
}

var _ domain.Embedder = (*Model)(nil)

func (m *Model) Name() string { return "tfidf" }

// Dimension returns the vocabulary size.
func (m *Model) Dimension() int { return len(m.idf) }

// Embed computes L2-normalised TF-IDF vectors. Text without any known term
// maps to the zero vector.
func (m *Model) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.embedOne(text)
	}
	return out, nil
}

func (m *Model) embedOne(text string) []float32 {
	vec := make([]float64, len(m.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenize(text, m.stopwords) {
		if idx, ok := m.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	out := make([]float32, len(vec))
	if total == 0 {
		return out
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * m.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		if norm > 0 {
			v /= norm
		}
		out[i] = float32(v)
	}
	return out
}

func tokenize(text string, stopwords map[string]struct{}) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "whom", "how", "does", "do", "did", "my", "i", "me", "any",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
