package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/config/env"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfrag/internal/chunker"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/core/services"
	"github.com/custodia-labs/pdfrag/internal/loaders"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// newDependencies wires the driven adapters behind the CLI.
func newDependencies() cli.Dependencies {
	var configDir string

	return cli.Dependencies{
		Settings: func(dir string) (driving.SettingsService, error) {
			configDir = dir
			base, err := file.NewConfigStore(dir)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
			}
			overlay, err := env.NewConfigStore(base)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
			}
			return services.NewSettingsService(overlay), nil
		},
		Pipeline: func(ctx context.Context, settings domain.Settings) (*cli.Pipeline, error) {
			if settings.PromptsDir == "" && configDir != "" {
				settings.PromptsDir = filepath.Join(configDir, "prompts")
			}
			return buildPipeline(ctx, settings)
		},
		ValidateProvider: ai.ValidateProvider,
	}
}

// buildPipeline opens the store and providers and assembles the services.
// Everything opened is closed again if a later step fails.
func buildPipeline(ctx context.Context, settings domain.Settings) (*cli.Pipeline, error) {
	logger.Section("Pipeline")

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*cli.Pipeline, error) {
		_ = closeAll()
		return nil, err
	}

	store, err := storage.OpenVectorStore(ctx, settings.Database)
	if err != nil {
		return nil, err
	}
	closers = append(closers, store.Close)
	logger.Debug("Vector store: %s (collection %s)", settings.Database.Backend, settings.Database.CollectionName)

	embedder, err := ai.CreateAndValidateEmbeddingProvider(ctx, settings)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, embedder.Close)

	chat, err := ai.CreateAndValidateChatProvider(ctx, settings)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, chat.Close)
	logger.Debug("Provider: %s (embedding %s, chat %s)", settings.Provider, embedder.ModelName(), chat.ModelName())

	splitter, err := chunker.New(settings.PDF)
	if err != nil {
		return fail(err)
	}

	prompts, err := file.NewPromptStore(settings.PromptsDir)
	if err != nil {
		return fail(err)
	}
	promptBuilder := services.NewPromptBuilder(prompts)

	var ingestEmbedder driven.EmbeddingProvider = embedder
	if rps := settings.Ingest.RequestsPerSecond; rps > 0 {
		ingestEmbedder = ai.NewRateLimitedEmbedder(embedder, rps)
		logger.Debug("Ingestion limited to %g embedding requests/s", rps)
	}

	ingestion, err := services.NewIngestionService(loaders.NewDefaultRegistry(), splitter, ingestEmbedder, store, settings)
	if err != nil {
		return fail(err)
	}
	retrieval := services.NewRetrievalService(embedder, store, settings)
	answer := services.NewAnswerService(retrieval, promptBuilder, chat)

	return &cli.Pipeline{
		Ingestion: ingestion,
		Retrieval: retrieval,
		Answer:    answer,
		Prompt:    promptBuilder,
		Close:     closeAll,
	}, nil
}
