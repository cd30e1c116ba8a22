package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// mockEmbedder implements driven.EmbeddingProvider for testing.
// Vectors are derived from text length so results are deterministic.
type mockEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	batchSizes []int
	embedErr   error
	batchErr   error
	short      bool
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = vectorFor(text)
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) calls() (embed, batch int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls, m.batchCalls
}

func vectorFor(text string) []float32 {
	return []float32{1, float32(len(text) % 7), float32(strings.Count(text, " ") % 5)}
}

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	results     []domain.ScoredResult
	searchErr   error
	upsertErr   error
	deleteErr   error
	searchCalls int
	deleteCalls int
	lastK       int
	lastThresh  *float64
	upserted    []domain.StoredDocument
	collection  string
}

func (m *mockVectorStore) Upsert(_ context.Context, collection string, docs []domain.StoredDocument) error {
	m.collection = collection
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, docs...)
	return nil
}

func (m *mockVectorStore) SimilaritySearch(
	_ context.Context, collection string, _ []float32, k int, threshold *float64,
) ([]domain.ScoredResult, error) {
	m.searchCalls++
	m.collection = collection
	m.lastK = k
	m.lastThresh = threshold
	return m.results, m.searchErr
}

func (m *mockVectorStore) Count(_ context.Context, _ string) (int, error) {
	return len(m.upserted), nil
}

func (m *mockVectorStore) DeleteCollection(_ context.Context, collection string) error {
	m.deleteCalls++
	m.collection = collection
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.upserted = nil
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockChat implements driven.ChatProvider for testing.
type mockChat struct {
	reply    string
	err      error
	calls    int
	messages []driven.ChatMessage
}

func (m *mockChat) Generate(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	return m.reply, m.err
}

func (m *mockChat) ModelName() string            { return "mock-chat" }
func (m *mockChat) Ping(_ context.Context) error { return nil }
func (m *mockChat) Close() error                 { return nil }

// mockRetriever implements driving.RetrievalService for testing.
type mockRetriever struct {
	results []domain.ScoredResult
	err     error
	calls   int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string) ([]domain.ScoredResult, error) {
	m.calls++
	return m.results, m.err
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	pages []domain.Page
	err   error
	calls int
}

func (m *mockLoader) Extensions() []string { return []string{".txt"} }

func (m *mockLoader) Load(_ context.Context, _ string) ([]domain.Page, error) {
	m.calls++
	return m.pages, m.err
}
