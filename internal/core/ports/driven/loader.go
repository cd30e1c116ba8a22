package driven

import (
	"context"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// DocumentLoader extracts per-page text from a source file.
type DocumentLoader interface {
	// Extensions returns the lowercase file extensions handled, e.g. ".pdf".
	Extensions() []string

	// Load reads the file and returns its pages in document order.
	Load(ctx context.Context, path string) ([]domain.Page, error)
}

// LoaderRegistry selects the appropriate loader for a path.
type LoaderRegistry interface {
	// Register adds a loader. Later registrations win for shared extensions.
	Register(loader DocumentLoader)

	// ForPath returns the loader for the path's extension.
	// Returns domain.ErrUnsupportedType if none matches.
	ForPath(path string) (DocumentLoader, error)

	// Extensions returns every supported extension.
	Extensions() []string
}

// Splitter cuts text into chunks no longer than its configured size.
// Implementations are pure and deterministic.
type Splitter interface {
	Split(text string) []string
}
