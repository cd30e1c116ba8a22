package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *VectorStore {
	t.Helper()

	store, err := NewVectorStore(filepath.Join(t.TempDir(), "data", "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func testDocs() []domain.StoredDocument {
	return []domain.StoredDocument{
		{ID: "doc-0", Content: "alpha", Metadata: map[string]string{"page": "0"}, Embedding: []float32{1, 0, 0}},
		{ID: "doc-1", Content: "beta", Metadata: map[string]string{"page": "1"}, Embedding: []float32{0.8, 0.6, 0}},
		{ID: "doc-2", Content: "gamma", Embedding: []float32{0, 0, 1}},
	}
}

func TestNewVectorStore_CreatesSchema(t *testing.T) {
	store := setupTestStore(t)

	assert.FileExists(t, store.Path())

	var version int
	require.NoError(t, store.db.Get(&version, "SELECT MAX(version) FROM schema_migrations"))
	assert.Equal(t, 1, version)
}

func TestNewVectorStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectors.db")

	store, err := NewVectorStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, "c", testDocs()))
	require.NoError(t, store.Close())

	store, err = NewVectorStore(path)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var migrations int
	require.NoError(t, store.db.Get(&migrations, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, migrations)
}

func TestVectorStore_SimilaritySearch(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Upsert(ctx, "c", testDocs()))

	results, err := store.SimilaritySearch(ctx, "c", []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "doc-0", results[0].ID)
	assert.Equal(t, "alpha", results[0].Content)
	assert.Equal(t, map[string]string{"page": "0"}, results[0].Metadata)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)

	assert.Equal(t, "doc-1", results[1].ID)
	assert.InDelta(t, 0.8, results[1].Score, 1e-6)
}

func TestVectorStore_SimilaritySearch_Threshold(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Upsert(ctx, "c", testDocs()))

	threshold := 0.9
	results, err := store.SimilaritySearch(ctx, "c", []float32{1, 0, 0}, 10, &threshold)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-0", results[0].ID)
}

func TestVectorStore_SimilaritySearch_MissingCollection(t *testing.T) {
	store := setupTestStore(t)

	results, err := store.SimilaritySearch(context.Background(), "nope", []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorStore_SimilaritySearch_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Upsert(ctx, "c", testDocs()))

	_, err := store.SimilaritySearch(ctx, "c", []float32{1, 0}, 5, nil)
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestVectorStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Upsert(ctx, "c", testDocs()))

	err := store.Upsert(ctx, "c", []domain.StoredDocument{
		{ID: "doc-2", Content: "replaced", Embedding: []float32{1, 0, 0}},
	})
	require.NoError(t, err)

	n, err := store.Count(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := store.SimilaritySearch(ctx, "c", []float32{0, 0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEqual(t, "doc-2", results[0].ID)

	results, err = store.SimilaritySearch(ctx, "c", []float32{1, 0, 0}, 3, nil)
	require.NoError(t, err)
	contents := []string{results[0].Content, results[1].Content}
	assert.Contains(t, contents, "replaced")
}

func TestVectorStore_UpsertRejectsEmptyID(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	err := store.Upsert(ctx, "c", []domain.StoredDocument{{Content: "x", Embedding: []float32{1}}})
	assert.ErrorIs(t, err, domain.ErrStore)

	n, err := store.Count(ctx, "c")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVectorStore_CollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Upsert(ctx, "a", testDocs()))
	require.NoError(t, store.Upsert(ctx, "b", testDocs()[:1]))

	require.NoError(t, store.DeleteCollection(ctx, "a"))

	n, err := store.Count(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Count(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var orphans int
	require.NoError(t, store.db.Get(&orphans, "SELECT COUNT(*) FROM embeddings"))
	assert.Equal(t, 1, orphans)

	assert.NoError(t, store.DeleteCollection(ctx, "missing"))
}

func TestVectorStore_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := domain.StoredDocument{
				ID:        domain.ChunkID(i),
				Content:   "chunk",
				Embedding: []float32{float32(i + 1), 1},
			}
			assert.NoError(t, store.Upsert(ctx, "c", []domain.StoredDocument{doc}))
		}()
	}
	wg.Wait()

	n, err := store.Count(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestFloat32Bytes(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
