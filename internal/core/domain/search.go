package domain

import "time"

// ScoredResult is a single similarity search hit.
// Score is cosine similarity: higher means more relevant.
type ScoredResult struct {
	// ID is the stored document identifier.
	ID string

	// Content is the chunk text.
	Content string

	// Metadata is the chunk metadata as stored.
	Metadata map[string]string

	// Score is the similarity to the query vector.
	Score float64
}

// IngestionReport summarises a completed ingestion run.
type IngestionReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Source is the ingested file path.
	Source string

	// Collection is the vector store collection written to.
	Collection string

	// PageCount is the number of pages loaded.
	PageCount int

	// ChunkCount is the number of chunks embedded and stored.
	ChunkCount int

	// IDs are the positional ids written, in order.
	IDs []string

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
