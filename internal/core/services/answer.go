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

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService answers questions from retrieved context only.
type AnswerService struct {
	retriever driving.RetrievalService
	prompts   *PromptBuilder
	chat      driven.ChatProvider
}

// NewAnswerService creates an answer pipeline.
func NewAnswerService(
	retriever driving.RetrievalService,
	prompts *PromptBuilder,
	chat driven.ChatProvider,
) *AnswerService {
	if prompts == nil {
		prompts = NewPromptBuilder(nil)
	}
	return &AnswerService{
		retriever: retriever,
		prompts:   prompts,
		chat:      chat,
	}
}

// Answer runs retrieval, then generation only when retrieval found context.
func (s *AnswerService) Answer(ctx context.Context, question string) (domain.Answer, error) {
	logger.Section("Answer")

	if strings.TrimSpace(question) == "" {
		return domain.Answer{Status: domain.AnswerInvalid}, nil
	}

	results, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrPipeline, err)
	}

	if len(results) == 0 {
		logger.Info("No context retrieved, returning refusal")
		return domain.Answer{Status: domain.AnswerUngrounded, Text: domain.RefusalText}, nil
	}

	prompt := s.prompts.Build(FormatContext(results), question)
	logger.Debug("Prompt: %d chars from %d results", len(prompt), len(results))

	text, err := s.chat.Generate(ctx, []driven.ChatMessage{
		{Role: driven.RoleUser, Content: prompt},
	}, driven.ChatOptions{})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrPipeline, err)
	}

	return domain.Answer{
		Status:  domain.AnswerGrounded,
		Text:    text,
		Sources: results,
	}, nil
}
