package chunker

import "github.com/custodia-labs/pdfrag/internal/core/ports/driven"

// Ensure Fixed implements the interface.
var _ driven.Splitter = (*Fixed)(nil)

// Fixed splits text into fixed-size windows.
// Consecutive chunks share exactly overlap characters, so dropping the first
// overlap characters of every chunk after the first and concatenating
// reconstructs the input.
type Fixed struct {
	chunkSize int
	overlap   int
}

// NewFixed creates a fixed-window splitter with the given options.
func NewFixed(opts ...Option) (*Fixed, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Fixed{chunkSize: c.chunkSize, overlap: c.overlap}, nil
}

// Split cuts text into windows of at most chunkSize characters.
func (f *Fixed) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := f.chunkSize - f.overlap
	chunks := make([]string, 0, len(runes)/step+1)

	for start := 0; ; start += step {
		end := start + f.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}
