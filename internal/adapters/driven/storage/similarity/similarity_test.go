package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 1}, []float32{3, 3}, 1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRank(t *testing.T) {
	results := func() []domain.ScoredResult {
		return []domain.ScoredResult{
			{ID: "doc-0", Score: 0.2},
			{ID: "doc-1", Score: 0.9},
			{ID: "doc-2", Score: 0.5},
			{ID: "doc-3", Score: 0.9},
		}
	}

	t.Run("orders best first with id tie break", func(t *testing.T) {
		ranked := Rank(results(), 10, nil)
		require.Len(t, ranked, 4)
		assert.Equal(t, []string{"doc-1", "doc-3", "doc-2", "doc-0"}, ids(ranked))
	})

	t.Run("ties follow document order", func(t *testing.T) {
		tied := []domain.ScoredResult{
			{ID: "doc-10", Score: 0.7},
			{ID: "doc-2", Score: 0.7},
			{ID: "doc-1", Score: 0.7},
		}
		assert.Equal(t, []string{"doc-1", "doc-2", "doc-10"}, ids(Rank(tied, 10, nil)))
	})

	t.Run("truncates to k", func(t *testing.T) {
		assert.Equal(t, []string{"doc-1", "doc-3"}, ids(Rank(results(), 2, nil)))
	})

	t.Run("drops results below threshold", func(t *testing.T) {
		threshold := 0.5
		assert.Equal(t, []string{"doc-1", "doc-3", "doc-2"}, ids(Rank(results(), 10, &threshold)))
	})

	t.Run("non-positive k returns nothing", func(t *testing.T) {
		assert.Empty(t, Rank(results(), 0, nil))
	})
}

func ids(results []domain.ScoredResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
