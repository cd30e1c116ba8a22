package tui

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

type mockAnswerService struct {
	answer    domain.Answer
	err       error
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (domain.Answer, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

type mockSettingsService struct {
	settings *domain.Settings
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) { return m.settings, m.err }
func (m *mockSettingsService) Set(_, _ string) error          { return nil }
func (m *mockSettingsService) Keys() []string                 { return nil }
func (m *mockSettingsService) Path() string                   { return "" }
