package driving

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// AnswerService answers questions grounded on retrieved context.
type AnswerService interface {
	// Answer returns a grounded, ungrounded or invalid answer.
	// Provider or store failures are returned as errors wrapping domain.ErrPipeline.
	Answer(ctx context.Context, question string) (domain.Answer, error)
}
