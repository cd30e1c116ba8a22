package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// VectorStore persists chunk embeddings and answers similarity queries.
// Documents are partitioned by collection name and keyed by id within it.
// Failures wrap domain.ErrStore.
type VectorStore interface {
	// Upsert inserts documents, overwriting any with the same id.
	Upsert(ctx context.Context, collection string, docs []domain.StoredDocument) error

	// SimilaritySearch returns up to k documents ordered by descending cosine
	// similarity. When threshold is non-nil, results scoring below it are dropped.
	SimilaritySearch(
		ctx context.Context,
		collection string,
		vector []float32,
		k int,
		threshold *float64,
	) ([]domain.ScoredResult, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// DeleteCollection removes the collection and all its documents.
	// Deleting a missing collection is not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases resources.
	Close() error
}
