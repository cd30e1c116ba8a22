package mcp

import (
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// TemplateSource exposes the active grounding template.
type TemplateSource interface {
	Template() string
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval provides similarity search over ingested chunks.
	Retrieval driving.RetrievalService

	// Answer runs the grounded question answering pipeline.
	Answer driving.AnswerService

	// Ingestion loads documents into the store. Optional.
	Ingestion driving.IngestionService

	// Settings exposes the effective configuration. Optional.
	Settings driving.SettingsService

	// Prompt exposes the grounding template. Optional.
	Prompt TemplateSource
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
