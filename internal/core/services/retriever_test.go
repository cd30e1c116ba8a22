package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestRetrieve_BlankQueryMakesNoCalls(t *testing.T) {
	for _, query := range []string{"", "   ", "\n\t"} {
		embedder := &mockEmbedder{}
		store := &mockVectorStore{}
		svc := NewRetrievalService(embedder, store, testSettings())

		results, err := svc.Retrieve(context.Background(), query)

		require.NoError(t, err)
		assert.Empty(t, results)
		embedCalls, batchCalls := embedder.calls()
		assert.Zero(t, embedCalls)
		assert.Zero(t, batchCalls)
		assert.Zero(t, store.searchCalls)
	}
}

func TestRetrieve_PassesSettings(t *testing.T) {
	settings := testSettings()
	settings.Search.K = 3
	threshold := 0.4
	settings.Search.ScoreThreshold = &threshold

	store := &mockVectorStore{results: []domain.ScoredResult{{ID: "doc-0", Score: 0.9}}}
	svc := NewRetrievalService(&mockEmbedder{}, store, settings)

	results, err := svc.Retrieve(context.Background(), "vacation days")

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 3, store.lastK)
	require.NotNil(t, store.lastThresh)
	assert.InDelta(t, 0.4, *store.lastThresh, 1e-9)
	assert.Equal(t, settings.Database.CollectionName, store.collection)
}

func TestRetrieve_TruncatesToK(t *testing.T) {
	settings := testSettings()
	settings.Search.K = 2
	store := &mockVectorStore{results: []domain.ScoredResult{
		{ID: "doc-0", Score: 0.9}, {ID: "doc-1", Score: 0.8}, {ID: "doc-2", Score: 0.7},
	}}
	svc := NewRetrievalService(&mockEmbedder{}, store, settings)

	results, err := svc.Retrieve(context.Background(), "policy")

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetrieve_Failures(t *testing.T) {
	t.Run("embedder", func(t *testing.T) {
		cause := errors.New("invalid api key")
		store := &mockVectorStore{}
		svc := NewRetrievalService(&mockEmbedder{embedErr: cause}, store, testSettings())

		_, err := svc.Retrieve(context.Background(), "policy")

		assert.ErrorIs(t, err, domain.ErrRetrieval)
		assert.ErrorIs(t, err, cause)
		assert.Zero(t, store.searchCalls)
	})

	t.Run("store", func(t *testing.T) {
		cause := errors.New("relation does not exist")
		svc := NewRetrievalService(&mockEmbedder{}, &mockVectorStore{searchErr: cause}, testSettings())

		_, err := svc.Retrieve(context.Background(), "policy")

		assert.ErrorIs(t, err, domain.ErrRetrieval)
		assert.ErrorIs(t, err, cause)
	})
}

func TestRetrieve_WithMemoryStore(t *testing.T) {
	ctx := context.Background()
	settings := testSettings()
	settings.Search.K = 1

	store := memory.NewVectorStore()
	require.NoError(t, store.Upsert(ctx, settings.Database.CollectionName, []domain.StoredDocument{
		{ID: "doc-0", Content: "short", Embedding: vectorFor("short")},
		{ID: "doc-1", Content: "a much longer passage", Embedding: vectorFor("a much longer passage")},
	}))
	svc := NewRetrievalService(&mockEmbedder{}, store, settings)

	results, err := svc.Retrieve(ctx, "short")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-0", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}
