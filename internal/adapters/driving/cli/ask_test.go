package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestAskCmd_Grounded(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "How long do refunds take?")

	require.NoError(t, err)
	assert.Contains(t, out, "Refunds take up to 30 days.")
	assert.NotContains(t, out, "Sources:")
	assert.Equal(t, []string{"How long do refunds take?"}, ts.answer.questions)
}

func TestAskCmd_Sources(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "--sources", "How long do refunds take?")

	require.NoError(t, err)
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] doc-0 page 2 (0.87)")
}

func TestAskCmd_Ungrounded(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.answer.answer = domain.Answer{Status: domain.AnswerUngrounded, Text: domain.RefusalText}

	out, err := execute(t, "ask", "Who won the 1998 World Cup?")

	require.NoError(t, err)
	assert.Contains(t, out, domain.RefusalText)
	assert.Contains(t, out, "No relevant passages")
}

func TestAskCmd_Invalid(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.answer.answer = domain.Answer{Status: domain.AnswerInvalid}

	_, err := execute(t, "ask", "   ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestAskCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "--json", "How long?")
	require.NoError(t, err)

	var decoded struct {
		Status  string       `json:"status"`
		Answer  string       `json:"answer"`
		Sources []resultJSON `json:"sources"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "grounded", decoded.Status)
	assert.Equal(t, "Refunds take up to 30 days.", decoded.Answer)
	assert.Len(t, decoded.Sources, 1)
}

func TestAskCmd_PipelineError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.answer.err = domain.ErrPipeline

	_, err := execute(t, "ask", "How long?")

	assert.ErrorIs(t, err, domain.ErrPipeline)
}
