package loaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/loaders/pdf"
	"github.com/custodia-labs/pdfrag/internal/loaders/plaintext"
)

func TestNewDefaultRegistry_Extensions(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{".markdown", ".md", ".pdf", ".txt"}, r.Extensions())
}

func TestRegistry_ForPath(t *testing.T) {
	r := NewDefaultRegistry()

	loader, err := r.ForPath("/tmp/Report.PDF")
	require.NoError(t, err)
	assert.IsType(t, &pdf.Loader{}, loader)

	loader, err = r.ForPath("notes.md")
	require.NoError(t, err)
	assert.IsType(t, &plaintext.Loader{}, loader)
}

func TestRegistry_ForPath_Unsupported(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.ForPath("slides.pptx")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), ".pptx")
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Extensions())

	_, err := r.ForPath("doc.pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
