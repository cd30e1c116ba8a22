// Package gemini provides a chat provider backed by the Google Generative
// Language API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	embedgemini "github.com/custodia-labs/pdfrag/internal/adapters/driven/embedding/gemini"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.ChatProvider = (*LLMService)(nil)

// DefaultLLMModel is the chat model used when none is configured.
const DefaultLLMModel = "gemini-2.5-flash-lite"

// Gemini names the assistant role "model" and has no system role in contents.
const roleModel = "model"

// LLMConfig holds configuration for the Gemini chat service.
type LLMConfig struct {
	// APIKey is the Google AI Studio API key (required).
	APIKey string

	// BaseURL overrides the API endpoint (default: embedgemini.DefaultBaseURL).
	BaseURL string

	// Model is the chat model (default: gemini-2.5-flash-lite).
	Model string

	// Temperature is the default sampling temperature. Always sent.
	Temperature float64

	// MaxTokens caps output length. Zero means the model default.
	MaxTokens int
}

// LLMService generates content using the Gemini API.
type LLMService struct {
	client      *embedgemini.Client
	name        string
	path        string
	temperature float64
	maxTokens   int
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateContentRequest struct {
	Contents          []*embedgemini.Content `json:"contents"`
	SystemInstruction *embedgemini.Content   `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig       `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      *embedgemini.Content `json:"content"`
		FinishReason string               `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// NewLLMService creates a new Gemini chat service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	client, err := embedgemini.NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}

	return &LLMService{
		client:      client,
		name:        cfg.Model,
		path:        embedgemini.ModelPath(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Generate returns the text of the first candidate.
func (s *LLMService) Generate(
	ctx context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (string, error) {
	req := generateContentRequest{
		GenerationConfig: generationConfig{
			Temperature:     s.temperature,
			MaxOutputTokens: s.maxTokens,
		},
	}
	if opts.Temperature != nil {
		req.GenerationConfig.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.GenerationConfig.MaxOutputTokens = opts.MaxTokens
	}

	var system []string
	for _, m := range messages {
		switch m.Role {
		case driven.RoleSystem:
			system = append(system, m.Content)
		case driven.RoleAssistant:
			req.Contents = append(req.Contents, embedgemini.TextContent(roleModel, m.Content))
		default:
			req.Contents = append(req.Contents, embedgemini.TextContent(driven.RoleUser, m.Content))
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = embedgemini.TextContent("", strings.Join(system, "\n\n"))
	}

	var resp generateContentResponse
	if err := s.client.Post(ctx, s.path+":generateContent", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		reason := ""
		if resp.PromptFeedback != nil {
			reason = resp.PromptFeedback.BlockReason
		}
		return "", fmt.Errorf("%w: gemini: no candidates returned %s", domain.ErrProvider, reason)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// ModelName returns the name of the chat model being used.
func (s *LLMService) ModelName() string {
	return s.name
}

// Ping fetches the model metadata, which validates the API key.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, s.path, nil)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
