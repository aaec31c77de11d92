// Package store keeps fully built documents in memory, keyed by ID.
package store

import (
	"sort"
	"sync"
	"time"

	"docqa/internal/domain"
	"docqa/internal/vectorstore"
)

// Document is an ingested document. It is never mutated after Put; a
// re-ingestion replaces the whole value.
type Document struct {
	ID     string
	Source string
	Chunks []domain.Chunk
	Index  vectorstore.Index
	// Embedder produced Index and must be used for queries against it.
	Embedder  domain.Embedder
	Summary   string
	CreatedAt time.Time
}

// Store is a concurrency-safe registry of documents.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func New() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Put publishes doc, replacing any document with the same ID.
func (s *Store) Put(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

func (s *Store) Get(id string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// IDs returns the stored document IDs in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
