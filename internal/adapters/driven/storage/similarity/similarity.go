// Package similarity ranks stored vectors against a query for stores that
// search in process.
package similarity

import (
	"math"
	"sort"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b, in [-1, 1].
// Mismatched lengths or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank orders results by descending score, breaking ties by document order,
// drops those below threshold and keeps at most k.
func Rank(results []domain.ScoredResult, k int, threshold *float64) []domain.ScoredResult {
	if k <= 0 {
		return []domain.ScoredResult{}
	}

	kept := results[:0]
	for _, r := range results {
		if threshold != nil && r.Score < *threshold {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return idLess(kept[i].ID, kept[j].ID)
	})

	if len(kept) > k {
		kept = kept[:k]
	}
	return kept
}

// idLess orders positional ids numerically: doc-2 before doc-10.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
