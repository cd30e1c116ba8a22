package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestOpenVectorStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenVectorStore(ctx, domain.DatabaseSettings{Backend: domain.StoreBackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.VectorStore{}, store)

	path := filepath.Join(t.TempDir(), "v.db")
	store, err = OpenVectorStore(ctx, domain.DatabaseSettings{Backend: domain.StoreBackendSQLite, SQLitePath: path})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.VectorStore{}, store)
	assert.NoError(t, store.Close())

	_, err = OpenVectorStore(ctx, domain.DatabaseSettings{Backend: domain.StoreBackendPostgres})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = OpenVectorStore(ctx, domain.DatabaseSettings{Backend: "redis"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
