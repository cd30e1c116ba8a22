package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

func TestAnswer_BlankQuestionIsInvalid(t *testing.T) {
	retriever := &mockRetriever{}
	chat := &mockChat{}
	svc := NewAnswerService(retriever, nil, chat)

	answer, err := svc.Answer(context.Background(), "   ")

	require.NoError(t, err)
	assert.Equal(t, domain.AnswerInvalid, answer.Status)
	assert.Zero(t, retriever.calls)
	assert.Zero(t, chat.calls)
}

// Empty retrieval returns the refusal and never reaches the chat model.
func TestAnswer_NoContextRefuses(t *testing.T) {
	embedder := &mockEmbedder{}
	store := &mockVectorStore{}
	chat := &mockChat{reply: "Paris"}
	svc := NewAnswerService(NewRetrievalService(embedder, store, testSettings()), nil, chat)

	answer, err := svc.Answer(context.Background(), "capital of France")

	require.NoError(t, err)
	assert.Equal(t, domain.AnswerUngrounded, answer.Status)
	assert.Equal(t, domain.RefusalText, answer.Text)
	assert.False(t, answer.Grounded())
	assert.Equal(t, 1, store.searchCalls)
	assert.Zero(t, chat.calls)
}

// A single hit is rendered with a two-decimal score in the prompt.
func TestAnswer_PromptCarriesScoreAndChunk(t *testing.T) {
	chunk := "Remote work requires manager approval."
	store := &mockVectorStore{results: []domain.ScoredResult{{ID: "doc-4", Content: chunk, Score: 0.87}}}
	chat := &mockChat{reply: "Remote work requires manager approval."}
	svc := NewAnswerService(NewRetrievalService(&mockEmbedder{}, store, testSettings()), nil, chat)

	answer, err := svc.Answer(context.Background(), "Who approves remote work?")

	require.NoError(t, err)
	assert.Equal(t, domain.AnswerGrounded, answer.Status)
	assert.Equal(t, chat.reply, answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "doc-4", answer.Sources[0].ID)

	require.Equal(t, 1, chat.calls)
	require.Len(t, chat.messages, 1)
	assert.Equal(t, driven.RoleUser, chat.messages[0].Role)
	prompt := chat.messages[0].Content
	assert.Contains(t, prompt, "score: 0.87")
	assert.Contains(t, prompt, chunk)
	assert.Contains(t, prompt, "Who approves remote work?")
}

func TestAnswer_ModelOutputIsVerbatim(t *testing.T) {
	retriever := &mockRetriever{results: []domain.ScoredResult{{Content: "x", Score: 0.5}}}
	chat := &mockChat{reply: "  line one\nline two  "}
	svc := NewAnswerService(retriever, nil, chat)

	answer, err := svc.Answer(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, "  line one\nline two  ", answer.Text)
}

func TestAnswer_Failures(t *testing.T) {
	t.Run("retrieval", func(t *testing.T) {
		cause := errors.New("timeout")
		chat := &mockChat{}
		svc := NewAnswerService(&mockRetriever{err: cause}, nil, chat)

		_, err := svc.Answer(context.Background(), "q")

		assert.ErrorIs(t, err, domain.ErrPipeline)
		assert.ErrorIs(t, err, cause)
		assert.Zero(t, chat.calls)
	})

	t.Run("generation", func(t *testing.T) {
		cause := errors.New("model overloaded")
		retriever := &mockRetriever{results: []domain.ScoredResult{{Content: "x", Score: 0.5}}}
		svc := NewAnswerService(retriever, nil, &mockChat{err: cause})

		answer, err := svc.Answer(context.Background(), "q")

		assert.ErrorIs(t, err, domain.ErrPipeline)
		assert.ErrorIs(t, err, cause)
		assert.Empty(t, answer.Text)
	})

	t.Run("failed retrieval keeps retrieval category", func(t *testing.T) {
		store := &mockVectorStore{searchErr: errors.New("no such table")}
		svc := NewAnswerService(NewRetrievalService(&mockEmbedder{}, store, testSettings()), nil, &mockChat{})

		_, err := svc.Answer(context.Background(), "q")

		assert.ErrorIs(t, err, domain.ErrPipeline)
		assert.ErrorIs(t, err, domain.ErrRetrieval)
	})
}

func TestAnswer_UsesPromptStoreTemplate(t *testing.T) {
	retriever := &mockRetriever{results: []domain.ScoredResult{{Content: "ctx", Score: 0.5}}}
	chat := &mockChat{reply: "ok"}
	prompts := NewPromptBuilder(&mockPromptStore{prompts: map[string]string{
		driven.PromptGrounding: "[{context}] {question}",
	}})
	svc := NewAnswerService(retriever, prompts, chat)

	_, err := svc.Answer(context.Background(), "why")

	require.NoError(t, err)
	assert.Equal(t, "[Document (score: 0.50):\nctx\n] why", chat.messages[0].Content)
}
