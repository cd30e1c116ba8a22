package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// IngestionService loads a source document into the vector store.
type IngestionService interface {
	// Ingest chunks, embeds and stores the document at path.
	Ingest(ctx context.Context, path string) (*domain.IngestionReport, error)

	// Replace ingests path and swaps it in for the collection's current
	// contents. A failed run leaves the collection untouched.
	Replace(ctx context.Context, path string) (*domain.IngestionReport, error)
}
