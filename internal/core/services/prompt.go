package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// contextSeparator joins formatted results in the retrieval context.
const contextSeparator = "\n---\n"

// PromptBuilder assembles the grounding prompt sent to the chat model.
type PromptBuilder struct {
	prompts driven.PromptStore
}

// NewPromptBuilder creates a prompt builder.
// The prompt store is optional; nil always uses the built-in template.
func NewPromptBuilder(prompts driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{prompts: prompts}
}

// Template returns the active grounding template.
func (b *PromptBuilder) Template() string {
	if b.prompts == nil {
		return domain.DefaultGroundingPrompt
	}
	tmpl, err := b.prompts.Load(driven.PromptGrounding)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		if err != nil {
			logger.Warn("Using built-in grounding prompt: %v", err)
		}
		return domain.DefaultGroundingPrompt
	}
	return tmpl
}

// Build substitutes the retrieval context and question into the template.
func (b *PromptBuilder) Build(retrievalContext, question string) string {
	return BuildPrompt(b.Template(), retrievalContext, question)
}

// BuildPrompt replaces the {context} and {question} placeholders in template.
// Substitution is a single pass, so placeholder text inside the values is kept.
func BuildPrompt(template, retrievalContext, question string) string {
	return strings.NewReplacer(
		domain.PlaceholderContext, retrievalContext,
		domain.PlaceholderQuestion, question,
	).Replace(template)
}

// FormatContext renders results best-first with two-decimal scores.
// Returns the empty string for no results.
func FormatContext(results []domain.ScoredResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("Document (score: %.2f):\n%s\n", r.Score, strings.TrimSpace(r.Content)))
	}
	return strings.Join(parts, contextSeparator)
}
