// Package chunker splits extracted document text into bounded, overlapping chunks.
//
// Two strategies are provided. Recursive prefers paragraph, then line, then word
// boundaries and only slices characters when nothing else fits. Fixed cuts
// windows of exactly ChunkSize characters that overlap by exactly ChunkOverlap.
// Lengths are counted in runes.
package chunker

import (
	"fmt"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 150

// Option configures a splitter.
type Option func(*config)

type config struct {
	chunkSize  int
	overlap    int
	separators []string
}

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *config) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *config) {
		c.overlap = overlap
	}
}

// WithSeparators replaces the recursive splitter's separator list.
// The character separator "" is always kept as the last resort so no chunk
// exceeds the chunk size. Ignored by the fixed splitter.
func WithSeparators(separators ...string) Option {
	return func(c *config) {
		seps := make([]string, 0, len(separators)+1)
		for _, sep := range separators {
			if sep != "" {
				seps = append(seps, sep)
			}
		}
		c.separators = append(seps, "")
	}
}

func newConfig(opts []Option) (config, error) {
	c := config{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		opt(&c)
	}

	settings := domain.ChunkingSettings{ChunkSize: c.chunkSize, ChunkOverlap: c.overlap}
	if err := settings.Validate(); err != nil {
		return config{}, err
	}
	return c, nil
}

// New returns the splitter selected by the chunking settings.
// Invalid sizes fail with domain.ErrConfiguration.
func New(settings domain.ChunkingSettings) (driven.Splitter, error) {
	opts := []Option{
		WithChunkSize(settings.ChunkSize),
		WithOverlap(settings.ChunkOverlap),
	}

	switch settings.Splitter {
	case domain.SplitterFixed:
		return NewFixed(opts...)
	case domain.SplitterRecursive, "":
		return NewRecursive(opts...)
	default:
		return nil, fmt.Errorf("%w: unknown splitter %q", domain.ErrConfiguration, settings.Splitter)
	}
}
