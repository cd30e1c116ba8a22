package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure Recursive implements the interface.
var _ driven.Splitter = (*Recursive)(nil)

// DefaultSeparators are tried in order: paragraph, line, word, character.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Recursive splits on the largest separator present in the text and recurses
// into pieces that are still too long using the remaining separators.
// Separators stay attached to the start of the following piece and every
// chunk is trimmed of surrounding whitespace.
type Recursive struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursive creates a separator-aware splitter with the given options.
func NewRecursive(opts ...Option) (*Recursive, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Recursive{chunkSize: c.chunkSize, overlap: c.overlap, separators: c.separators}, nil
}

// Split cuts text into chunks of at most chunkSize characters.
func (r *Recursive) Split(text string) []string {
	return r.split(text, r.separators)
}

func (r *Recursive) split(text string, separators []string) []string {
	separator := ""
	var remaining []string
	if len(separators) > 0 {
		separator = separators[len(separators)-1]
	}
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var chunks, fitting []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < r.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			chunks = append(chunks, r.merge(fitting)...)
			fitting = nil
		}
		if len(remaining) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, r.split(piece, remaining)...)
		}
	}
	if len(fitting) > 0 {
		chunks = append(chunks, r.merge(fitting)...)
	}

	return chunks
}

// merge packs small pieces into chunks, carrying up to overlap characters
// from the tail of one chunk into the next.
func (r *Recursive) merge(pieces []string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > r.chunkSize && len(current) > 0 {
			if chunk := join(current); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > r.overlap || (total+n > r.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if chunk := join(current); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepSeparator splits text on sep, prefixing each piece after the
// first with the separator. Empty pieces are dropped.
// An empty separator splits into single characters.
func splitKeepSeparator(text, sep string) []string {
	var parts []string
	if sep == "" {
		parts = make([]string, 0, len(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
	} else {
		raw := strings.Split(text, sep)
		parts = make([]string, 0, len(raw))
		parts = append(parts, raw[0])
		for _, p := range raw[1:] {
			parts = append(parts, sep+p)
		}
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func join(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
