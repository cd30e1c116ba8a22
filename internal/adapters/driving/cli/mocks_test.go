package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

type mockRetrievalService struct {
	results []domain.ScoredResult
	err     error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string) ([]domain.ScoredResult, error) {
	return m.results, m.err
}

type mockAnswerService struct {
	answer    domain.Answer
	err       error
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (domain.Answer, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	if question == "fail" {
		return domain.Answer{}, errors.New("provider unavailable")
	}
	return m.answer, nil
}

type mockIngestionService struct {
	report   *domain.IngestionReport
	err      error
	paths    []string
	replaced []string
}

func (m *mockIngestionService) Ingest(_ context.Context, path string) (*domain.IngestionReport, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockIngestionService) Replace(_ context.Context, path string) (*domain.IngestionReport, error) {
	m.replaced = append(m.replaced, path)
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockTemplate string

func (m mockTemplate) Template() string { return string(m) }
