// Package ai provides factory functions for creating AI provider adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/pdfrag/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/custodia-labs/pdfrag/internal/adapters/driven/embedding/openai"
	geminillm "github.com/custodia-labs/pdfrag/internal/adapters/driven/llm/gemini"
	openaillm "github.com/custodia-labs/pdfrag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingProvider creates the embedding provider selected by settings.
func CreateEmbeddingProvider(_ context.Context, settings domain.Settings) (driven.EmbeddingProvider, error) {
	p := settings.ActiveProvider()

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  p.APIKey,
			BaseURL: p.BaseURL,
			Model:   p.EmbeddingModel,
		})

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:  p.APIKey,
			BaseURL: p.BaseURL,
			Model:   p.EmbeddingModel,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateChatProvider creates the chat provider selected by settings.
func CreateChatProvider(_ context.Context, settings domain.Settings) (driven.ChatProvider, error) {
	p := settings.ActiveProvider()

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:      p.APIKey,
			BaseURL:     p.BaseURL,
			Model:       p.LLMModel,
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
		})

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(geminillm.LLMConfig{
			APIKey:      p.APIKey,
			BaseURL:     p.BaseURL,
			Model:       p.LLMModel,
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateAndValidateEmbeddingProvider creates an embedding provider and checks
// it is reachable. When requests_per_second is set the provider is throttled.
func CreateAndValidateEmbeddingProvider(ctx context.Context, settings domain.Settings) (driven.EmbeddingProvider, error) {
	svc, err := CreateEmbeddingProvider(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'pdfrag settings wizard' to fix", err)
	}

	if err := ping(ctx, svc); err != nil {
		svc.Close()
		return nil, fmt.Errorf("embedding service unreachable (%w). Run 'pdfrag settings wizard' to fix", err)
	}

	if rps := settings.Ingest.RequestsPerSecond; rps > 0 {
		return NewRateLimitedEmbedder(svc, rps), nil
	}
	return svc, nil
}

// CreateAndValidateChatProvider creates a chat provider and checks it is reachable.
func CreateAndValidateChatProvider(ctx context.Context, settings domain.Settings) (driven.ChatProvider, error) {
	svc, err := CreateChatProvider(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'pdfrag settings wizard' to fix", err)
	}

	if err := ping(ctx, svc); err != nil {
		svc.Close()
		return nil, fmt.Errorf("chat service unreachable (%w). Run 'pdfrag settings wizard' to fix", err)
	}
	return svc, nil
}

// ValidateProvider checks that the selected provider accepts the configured
// credentials for both its embedding and chat models.
func ValidateProvider(ctx context.Context, settings domain.Settings) error {
	embedder, err := CreateEmbeddingProvider(ctx, settings)
	if err != nil {
		return err
	}
	defer embedder.Close()
	if err := ping(ctx, embedder); err != nil {
		return fmt.Errorf("embedding model %s: %w", embedder.ModelName(), err)
	}

	chat, err := CreateChatProvider(ctx, settings)
	if err != nil {
		return err
	}
	defer chat.Close()
	if err := ping(ctx, chat); err != nil {
		return fmt.Errorf("chat model %s: %w", chat.ModelName(), err)
	}
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func ping(ctx context.Context, p pinger) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}
