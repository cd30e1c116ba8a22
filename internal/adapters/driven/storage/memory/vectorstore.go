package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Search is brute force; it suits tests and small documents.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.StoredDocument
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]map[string]domain.StoredDocument),
	}
}

// Upsert stores copies of docs, replacing existing ids.
func (s *VectorStore) Upsert(_ context.Context, collection string, docs []domain.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]domain.StoredDocument)
		s.collections[collection] = coll
	}

	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w: document id is required", domain.ErrStore)
		}
		coll[doc.ID] = domain.StoredDocument{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  maps.Clone(doc.Metadata),
			Embedding: slices.Clone(doc.Embedding),
		}
	}
	return nil
}

// SimilaritySearch scores every document in the collection.
func (s *VectorStore) SimilaritySearch(
	_ context.Context,
	collection string,
	vector []float32,
	k int,
	threshold *float64,
) ([]domain.ScoredResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	results := make([]domain.ScoredResult, 0, len(coll))
	for _, doc := range coll {
		if len(doc.Embedding) != len(vector) {
			return nil, fmt.Errorf("%w: query has %d dimensions, %s has %d",
				domain.ErrStore, len(vector), doc.ID, len(doc.Embedding))
		}
		results = append(results, domain.ScoredResult{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: maps.Clone(doc.Metadata),
			Score:    similarity.Cosine(vector, doc.Embedding),
		})
	}

	return similarity.Rank(results, k, threshold), nil
}

// Count returns the number of documents in the collection.
func (s *VectorStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

// DeleteCollection drops the collection.
func (s *VectorStore) DeleteCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
