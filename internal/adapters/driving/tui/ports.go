// Package tui provides an interactive terminal chat over the ingested documents.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the chat UI.
type Ports struct {
	// Answer runs the grounded question answering pipeline.
	Answer driving.AnswerService

	// Settings supplies the provider and model shown in the header. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
