// Package storage selects the vector store backend from settings.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// OpenVectorStore opens the backend named by settings.Database.Backend.
func OpenVectorStore(ctx context.Context, db domain.DatabaseSettings) (driven.VectorStore, error) {
	switch db.Backend {
	case domain.StoreBackendPostgres:
		return postgres.NewVectorStore(ctx, postgres.Config{URL: db.URL, UseJSONB: db.UseJSONB})
	case domain.StoreBackendSQLite:
		return sqlite.NewVectorStore(db.SQLitePath)
	case domain.StoreBackendMemory:
		return memory.NewVectorStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrConfiguration, db.Backend)
	}
}
