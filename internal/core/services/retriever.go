package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService embeds queries and runs similarity search.
type RetrievalService struct {
	embedder   driven.EmbeddingProvider
	store      driven.VectorStore
	collection string
	k          int
	threshold  *float64
}

// NewRetrievalService creates a retriever over the configured collection.
func NewRetrievalService(
	embedder driven.EmbeddingProvider,
	store driven.VectorStore,
	settings domain.Settings,
) *RetrievalService {
	return &RetrievalService{
		embedder:   embedder,
		store:      store,
		collection: settings.Database.CollectionName,
		k:          settings.Search.K,
		threshold:  settings.Search.ScoreThreshold,
	}
}

// Retrieve returns up to k results ordered by descending similarity.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) ([]domain.ScoredResult, error) {
	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.ScoredResult{}, nil
	}

	logger.Debug("Retrieve: k=%d collection=%s", s.k, s.collection)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}

	results, err := s.store.SimilaritySearch(ctx, s.collection, vector, s.k, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}

	if len(results) > s.k {
		results = results[:s.k]
	}
	logger.Debug("Retrieved %d results", len(results))
	return results, nil
}
