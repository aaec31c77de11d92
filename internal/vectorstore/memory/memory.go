package memory

import (
	"errors"
	"fmt"
	"sort"

	"docqa/internal/vectorstore"
)

// Index is a flat in-memory vector index searched exhaustively by squared
// Euclidean distance.
type Index struct {
	dimension int
	vectors   [][]float32
}

var _ vectorstore.Index = (*Index)(nil)

// Build copies the vectors into a new index. All vectors must share one dimension.
func Build(vectors [][]float32) (*Index, error) {
	idx := &Index{vectors: make([][]float32, len(vectors))}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, errors.New("empty vector")
		}
		if i == 0 {
			idx.dimension = len(v)
		} else if len(v) != idx.dimension {
			return nil, fmt.Errorf("vector dimension mismatch at %d: expected %d, got %d", i, idx.dimension, len(v))
		}
		idx.vectors[i] = append([]float32(nil), v...)
	}
	return idx, nil
}

func (s *Index) Len() int       { return len(s.vectors) }
func (s *Index) Dimension() int { return s.dimension }

// Vector returns a copy of the stored vector at position.
func (s *Index) Vector(position int) []float32 {
	if position < 0 || position >= len(s.vectors) {
		return nil
	}
	return append([]float32(nil), s.vectors[position]...)
}

// Search returns up to k nearest vectors ordered by ascending distance. Equal
// distances are ordered by position. k is clamped to the number of vectors.
func (s *Index) Search(query []float32, k int) ([]vectorstore.Hit, error) {
	if len(s.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}
	hits := make([]vectorstore.Hit, len(s.vectors))
	for i, v := range s.vectors {
		hits[i] = vectorstore.Hit{Position: i, Distance: squaredL2(v, query)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	k = min(k, len(hits))
	return hits[:k], nil
}

func squaredL2(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
