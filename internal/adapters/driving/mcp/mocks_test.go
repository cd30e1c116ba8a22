package mcp

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.ScoredResult
	err     error
	query   string
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string) ([]domain.ScoredResult, error) {
	m.query = query
	return m.results, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer domain.Answer
	err    error
}

func (m *mockAnswerService) Answer(_ context.Context, _ string) (domain.Answer, error) {
	return m.answer, m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	report   *domain.IngestionReport
	err      error
	path     string
	replaced bool
}

func (m *mockIngestionService) Ingest(_ context.Context, path string) (*domain.IngestionReport, error) {
	m.path = path
	return m.report, m.err
}

func (m *mockIngestionService) Replace(_ context.Context, path string) (*domain.IngestionReport, error) {
	m.path = path
	m.replaced = true
	return m.report, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.Settings
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) Path() string { return "" }

// mockTemplate is a fixed TemplateSource.
type mockTemplate string

func (m mockTemplate) Template() string { return string(m) }

func requiredPorts() *Ports {
	return &Ports{
		Retrieval: &mockRetrievalService{},
		Answer:    &mockAnswerService{},
	}
}
