package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrConfiguration", ErrConfiguration},
		{"ErrSourceNotFound", ErrSourceNotFound},
		{"ErrEmptyDocument", ErrEmptyDocument},
		{"ErrEmptyChunkSet", ErrEmptyChunkSet},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrProvider", ErrProvider},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrStore", ErrStore},
		{"ErrRetrieval", ErrRetrieval},
		{"ErrPipeline", ErrPipeline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmptyDocument, ErrEmptyChunkSet))
	assert.False(t, errors.Is(ErrRetrieval, ErrPipeline))
	assert.False(t, errors.Is(ErrProvider, ErrStore))
}

func TestErrors_MultiWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("%w: %w", ErrPipeline, fmt.Errorf("%w: %w", ErrRetrieval, cause))

	assert.ErrorIs(t, err, ErrPipeline)
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStore)
}
