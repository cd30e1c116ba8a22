// Package messages defines Bubbletea message types for the chat UI.
package messages

import (
	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// QuestionSubmitted is sent when the user submits a non-blank question.
type QuestionSubmitted struct {
	Question string
}

// AnswerCompleted carries the pipeline outcome back to the model.
type AnswerCompleted struct {
	Question string
	Answer   domain.Answer
	Err      error
}

// Role identifies who produced a transcript entry.
type Role int

const (
	// RoleUser is a question typed by the user.
	RoleUser Role = iota
	// RoleAssistant is an answer from the pipeline.
	RoleAssistant
	// RoleNotice is a local warning or error.
	RoleNotice
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleNotice:
		return "notice"
	default:
		return "unknown"
	}
}
