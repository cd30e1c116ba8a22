package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// RetrievalService finds the chunks most relevant to a query.
type RetrievalService interface {
	// Retrieve returns up to the configured k results, best first.
	// A blank query returns no results and makes no external calls.
	Retrieve(ctx context.Context, query string) ([]domain.ScoredResult, error)
}
