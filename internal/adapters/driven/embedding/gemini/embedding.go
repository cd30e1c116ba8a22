// Package gemini provides an embedding provider backed by the Google
// Generative Language API.
package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingProvider = (*EmbeddingService)(nil)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "models/embedding-001"

// Task types sent with embedding requests.
const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Model dimensions for Gemini embedding models.
var modelDimensions = map[string]int{
	"models/embedding-001":        768,
	"models/text-embedding-004":   768,
	"models/gemini-embedding-001": 3072,
}

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google AI Studio API key (required).
	APIKey string

	// BaseURL overrides the API endpoint (default: DefaultBaseURL).
	BaseURL string

	// Model is the embedding model (default: models/embedding-001).
	Model string
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	client *Client
	model  string

	mu         sync.RWMutex
	dimensions int
}

type embedContentRequest struct {
	Model    string   `json:"model,omitempty"`
	Content  *Content `json:"content"`
	TaskType string   `json:"taskType,omitempty"`
}

type embedding struct {
	Values []float32 `json:"values"`
}

type embedContentResponse struct {
	Embedding *embedding `json:"embedding"`
}

type batchEmbedContentsRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type batchEmbedContentsResponse struct {
	Embeddings []*embedding `json:"embeddings"`
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	client, err := NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	model := ModelPath(cfg.Model)
	return &EmbeddingService{
		client:     client,
		model:      model,
		dimensions: modelDimensions[model],
	}, nil
}

// Embed generates a query embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedContentResponse
	err := s.client.Post(ctx, s.model+":embedContent", embedContentRequest{
		Content:  TextContent("", text),
		TaskType: taskQuery,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: gemini: no embedding returned", domain.ErrProvider)
	}
	s.observeDimensions(len(resp.Embedding.Values))
	return resp.Embedding.Values, nil
}

// EmbedBatch generates document embeddings for multiple texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := batchEmbedContentsRequest{Requests: make([]embedContentRequest, len(texts))}
	for i, text := range texts {
		req.Requests[i] = embedContentRequest{
			Model:    s.model,
			Content:  TextContent("", text),
			TaskType: taskDocument,
		}
	}

	var resp batchEmbedContentsResponse
	if err := s.client.Post(ctx, s.model+":batchEmbedContents", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini: got %d embeddings for %d texts",
			domain.ErrProvider, len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("%w: gemini: missing embedding for input %d", domain.ErrProvider, i)
		}
		out[i] = e.Values
	}
	s.observeDimensions(len(out[0]))
	return out, nil
}

// Dimensions returns the embedding vector size. Unknown models report zero
// until the first embedding is returned.
func (s *EmbeddingService) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model metadata, which validates the API key.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, s.model, nil)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) observeDimensions(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimensions == 0 {
		s.dimensions = n
	}
}
