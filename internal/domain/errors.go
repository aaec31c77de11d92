package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates that a document produced no chunks.
	ErrEmptyInput = errors.New("document has no content")

	// ErrUnknownDocument indicates that no document is stored under the given ID.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrNotFitted indicates that a corpus embedder was used before Fit.
	ErrNotFitted = errors.New("embedder not fitted")
)

// EmbeddingError wraps a failure reported by an embedding capability.
// The underlying error is kept as-is so callers can inspect it.
type EmbeddingError struct {
	Embedder string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embed with %s: %v", e.Embedder, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// NewEmbeddingError wraps err unless it is nil or already an EmbeddingError.
func NewEmbeddingError(embedder string, err error) error {
	if err == nil {
		return nil
	}
	var ee *EmbeddingError
	if errors.As(err, &ee) {
		return err
	}
	return &EmbeddingError{Embedder: embedder, Err: err}
}
