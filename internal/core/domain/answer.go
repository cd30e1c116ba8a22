package domain

// RefusalText is the canonical response when the context does not contain
// the answer.
const RefusalText = "I don't have the information needed to answer your question."

// AnswerStatus is the terminal state of a single question.
// A failed question is reported as an error wrapping ErrPipeline instead.
type AnswerStatus string

const (
	// AnswerGrounded means the chat model answered from retrieved context.
	AnswerGrounded AnswerStatus = "grounded"

	// AnswerUngrounded means retrieval found nothing and the refusal was returned
	// without calling the chat model.
	AnswerUngrounded AnswerStatus = "ungrounded"

	// AnswerInvalid means the question was empty or whitespace.
	AnswerInvalid AnswerStatus = "invalid"
)

// String returns the string representation of the status.
func (s AnswerStatus) String() string {
	return string(s)
}

// Answer is the outcome of the answer pipeline.
type Answer struct {
	// Status is the terminal state.
	Status AnswerStatus

	// Text is the model output verbatim, or RefusalText when ungrounded.
	Text string

	// Sources are the results the answer was grounded on.
	Sources []ScoredResult
}

// Grounded reports whether the answer came from retrieved context.
func (a Answer) Grounded() bool {
	return a.Status == AnswerGrounded
}
