package domain

import "context"

// Document represents a single source text loaded into the system.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is a contiguous run of paragraphs from a document used for indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// Passage is a piece of text handed to the answer generator, together with the
// chunk it was cut from. Distance is zero for passages that bypassed vector search.
type Passage struct {
	Chunk    Chunk
	Text     string
	Distance float64
}

// Embedder converts free text into numeric vectors. The output has one vector
// per input text, in input order, all of the same dimension.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// CorpusEmbedder is an embedder whose vocabulary is derived from the document
// being indexed. Fit returns an immutable embedder bound to that corpus.
type CorpusEmbedder interface {
	Embedder
	Fit(corpus []string) (Embedder, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
