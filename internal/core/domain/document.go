package domain

import "strconv"

// Metadata keys attached to pages and chunks.
const (
	MetaSource     = "source"
	MetaPage       = "page"
	MetaTotalPages = "total_pages"
	MetaTitle      = "title"
	MetaAuthor     = "author"
)

// Page is the extracted text of one page (or section) of a source document.
type Page struct {
	// Number is the zero-based page index.
	Number int

	// Content is the extracted text.
	Content string

	// Metadata holds loader-provided fields such as source path and page.
	Metadata map[string]string
}

// Chunk is a contiguous span of source text plus its metadata.
// Chunks are immutable once created.
type Chunk struct {
	// ID is the positional identifier assigned during ingestion (doc-<n>).
	ID string

	// Content is the chunk text.
	Content string

	// Metadata carries page-level fields forward. Empty values are never stored.
	Metadata map[string]string
}

// StoredDocument is the persisted unit in a vector store collection.
type StoredDocument struct {
	ID        string
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// ChunkID returns the positional identifier for the chunk at index i.
func ChunkID(i int) string {
	return "doc-" + strconv.Itoa(i)
}

// CleanMetadata returns a copy of m without empty values.
// Returns nil if nothing remains.
func CleanMetadata(m map[string]string) map[string]string {
	var out map[string]string
	for k, v := range m {
		if v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(m))
		}
		out[k] = v
	}
	return out
}
