// Package pdf loads PDF files page by page using poppler's pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pageBreak separates pages in pdftotext output.
const pageBreak = "\f"

// infoFields maps pdfinfo keys to metadata keys.
var infoFields = map[string]string{
	"Title":        domain.MetaTitle,
	"Author":       domain.MetaAuthor,
	"Creator":      "creator",
	"Producer":     "producer",
	"CreationDate": "creationdate",
}

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		if name == "pdftotext" {
			return nil, ErrPDFToolNotFound
		}
		return nil, err
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

// Loader extracts text from PDF files.
type Loader struct {
	runner CommandRunner
}

// New creates a loader that shells out to pdftotext and pdfinfo.
func New() *Loader {
	return &Loader{runner: execRunner{}}
}

// NewWithRunner creates a loader with a custom command runner.
func NewWithRunner(runner CommandRunner) *Loader {
	return &Loader{runner: runner}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load returns one page per PDF page, in order. Page metadata carries the
// source path, zero-based page number, page count and document info fields.
// Info fields that pdfinfo leaves blank stay empty here; ingestion drops them.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Page, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceNotFound, err)
	}

	out, err := l.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return nil, fmt.Errorf("%w\n%s", err, InstallInstructions())
		}
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	texts := splitPages(string(out))
	info := l.info(ctx, path)

	pages := make([]domain.Page, len(texts))
	for i, text := range texts {
		meta := map[string]string{
			domain.MetaSource:     path,
			domain.MetaPage:       strconv.Itoa(i),
			domain.MetaTotalPages: strconv.Itoa(len(texts)),
		}
		for _, key := range infoFields {
			meta[key] = info[key]
		}
		pages[i] = domain.Page{Number: i, Content: text, Metadata: meta}
	}

	logger.Debug("pdf: loaded %d pages from %s", len(pages), path)
	return pages, nil
}

// info reads document info with pdfinfo. Failures only lose metadata.
func (l *Loader) info(ctx context.Context, path string) map[string]string {
	out, err := l.runner.Run(ctx, "pdfinfo", path)
	if err != nil {
		logger.Warn("pdf: pdfinfo unavailable for %s: %v", path, err)
		return nil
	}
	return parseInfo(string(out))
}

// parseInfo converts "Key:   value" lines into metadata keys.
func parseInfo(out string) map[string]string {
	meta := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if name, known := infoFields[strings.TrimSpace(key)]; known {
			meta[name] = strings.TrimSpace(value)
		}
	}
	return meta
}

// splitPages splits pdftotext output on form feeds.
// pdftotext terminates every page, including the last, with a form feed.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, pageBreak)
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext on common platforms.
func InstallInstructions() string {
	return `PDF support requires pdftotext from poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}
