package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestNew(t *testing.T) {
	loader := New()
	require.NotNil(t, loader)
	assert.Equal(t, []string{".txt", ".md", ".markdown"}, loader.Extensions())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.md")
	require.NoError(t, os.WriteFile(path, []byte("# Company FAQ\n\nWe are open Monday to Friday.\n"), 0o600))

	pages, err := New().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Number)
	assert.Contains(t, pages[0].Content, "Monday to Friday")
	assert.Equal(t, map[string]string{
		domain.MetaSource:     path,
		domain.MetaPage:       "0",
		domain.MetaTotalPages: "1",
		domain.MetaTitle:      "Company FAQ",
	}, pages[0].Metadata)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))

	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o600))

	_, err := New().Load(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		path     string
		expected string
	}{
		{"first line as title", "Handbook\n\nBody.", "/doc.txt", "Handbook"},
		{"skip empty lines", "\n\n\nActual Title\nContent", "/doc.txt", "Actual Title"},
		{"markdown heading", "## Setup Guide\ntext", "/doc.md", "Setup Guide"},
		{"fallback to filename", "", "/path/to/my_policy-notes.txt", "my policy notes"},
		{"skip very long first line", strings.Repeat("a", 250) + "\nShort Title", "/doc.txt", "Short Title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.path))
		})
	}
}
