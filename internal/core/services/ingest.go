package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService loads, chunks, embeds and stores a source document.
type IngestionService struct {
	loaders    driven.LoaderRegistry
	splitter   driven.Splitter
	embedder   driven.EmbeddingProvider
	store      driven.VectorStore
	chunking   domain.ChunkingSettings
	ingest     domain.IngestSettings
	collection string
}

// NewIngestionService creates an ingestion pipeline.
// Chunking settings are validated here so a bad configuration never reaches
// the embedding provider.
func NewIngestionService(
	loaders driven.LoaderRegistry,
	splitter driven.Splitter,
	embedder driven.EmbeddingProvider,
	store driven.VectorStore,
	settings domain.Settings,
) (*IngestionService, error) {
	if err := settings.PDF.Validate(); err != nil {
		return nil, err
	}
	ingest := settings.Ingest
	if ingest.BatchSize < 1 {
		ingest.BatchSize = 1
	}
	if ingest.Workers < 1 {
		ingest.Workers = 1
	}
	return &IngestionService{
		loaders:    loaders,
		splitter:   splitter,
		embedder:   embedder,
		store:      store,
		chunking:   settings.PDF,
		ingest:     ingest,
		collection: settings.Database.CollectionName,
	}, nil
}

// Ingest runs the full pipeline for the file at path.
// On failure nothing is reported; a partial set may already be stored.
func (s *IngestionService) Ingest(ctx context.Context, path string) (*domain.IngestionReport, error) {
	return s.run(ctx, path, false)
}

// Replace runs the pipeline for path and swaps the collection contents for
// the new chunks. The collection is only cleared once loading, chunking and
// embedding have succeeded, so a failed run keeps the previous contents.
func (s *IngestionService) Replace(ctx context.Context, path string) (*domain.IngestionReport, error) {
	return s.run(ctx, path, true)
}

func (s *IngestionService) run(ctx context.Context, path string, replace bool) (*domain.IngestionReport, error) {
	started := time.Now()
	runID := uuid.New().String()

	logger.Section("Ingestion")
	logger.Info("Ingest run %s: %s into %q", runID, path, s.collection)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrSourceNotFound, path)
	}
	if err := checkReadable(path); err != nil {
		return nil, err
	}

	loader, err := s.loaders.ForPath(path)
	if err != nil {
		return nil, err
	}

	pages, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("Loaded %d pages", len(pages))

	chunks, err := s.chunk(pages)
	if err != nil {
		return nil, err
	}
	logger.Info("Split into %d chunks", len(chunks))

	vectors, err := s.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.StoredDocument, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		docs[i] = domain.StoredDocument{
			ID:        c.ID,
			Content:   c.Content,
			Metadata:  c.Metadata,
			Embedding: vectors[i],
		}
		ids[i] = c.ID
	}

	if replace {
		if err := s.Reset(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.store.Upsert(ctx, s.collection, docs); err != nil {
		return nil, withKind(domain.ErrStore, err)
	}

	report := &domain.IngestionReport{
		RunID:      runID,
		Source:     path,
		Collection: s.collection,
		PageCount:  len(pages),
		ChunkCount: len(chunks),
		IDs:        ids,
		Duration:   time.Since(started),
	}
	logger.Info("Ingest run %s stored %d chunks in %s", runID, report.ChunkCount, report.Duration)
	return report, nil
}

// Reset removes every document in the configured collection.
func (s *IngestionService) Reset(ctx context.Context) error {
	logger.Info("Deleting collection %q", s.collection)
	if err := s.store.DeleteCollection(ctx, s.collection); err != nil {
		return withKind(domain.ErrStore, err)
	}
	return nil
}

// chunk splits each non-blank page and assigns positional ids.
func (s *IngestionService) chunk(pages []domain.Page) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	hasText := false

	for _, page := range pages {
		if strings.TrimSpace(page.Content) == "" {
			logger.Debug("Skipping blank page %d", page.Number)
			continue
		}
		hasText = true

		for _, text := range s.splitter.Split(page.Content) {
			chunks = append(chunks, domain.Chunk{
				ID:       domain.ChunkID(len(chunks)),
				Content:  text,
				Metadata: domain.CleanMetadata(page.Metadata),
			})
		}
	}

	if !hasText {
		return nil, domain.ErrEmptyDocument
	}
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyChunkSet
	}
	return chunks, nil
}

// embed computes vectors in batches on a bounded worker pool.
// Results are written back by index so order matches chunks.
func (s *IngestionService) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.ingest.Workers)

	for start := 0; start < len(chunks); start += s.ingest.BatchSize {
		end := min(start+s.ingest.BatchSize, len(chunks))

		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Content)
			}

			batch, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return withKind(domain.ErrProvider, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err))
			}
			if len(batch) != len(texts) {
				return fmt.Errorf("%w: embed chunks %d-%d: got %d vectors for %d texts",
					domain.ErrProvider, start, end-1, len(batch), len(texts))
			}

			copy(vectors[start:end], batch)
			logger.Debug("Embedded chunks %d-%d", start, end-1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// checkReadable opens and closes path so permission problems surface as a
// missing source rather than a loader failure.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSourceNotFound, err)
	}
	return f.Close()
}

// withKind prefixes err with kind unless an adapter already classified it.
func withKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
