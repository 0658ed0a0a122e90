package document

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gen2brain/go-fitz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VickyDev810/PlexiPDF/internal/testpdf"
)

func TestInsertText(t *testing.T) {
	dir := t.TempDir()
	path := testpdf.WriteFile(t, dir, "in.pdf",
		testpdf.Page{Text: "first"},
		testpdf.Page{Text: "second"},
	)

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	require.NoError(t, doc.InsertText(1, 100, 400, "OVERLAY", 12))

	// Persist and confirm the text became page content.
	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, doc.Save(out))

	reopened, err := Open(out)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Bytes()
	require.NoError(t, err)

	fz, err := fitz.NewFromMemory(data)
	require.NoError(t, err)
	defer fz.Close()

	pageText, err := fz.Text(1)
	require.NoError(t, err)
	assert.True(t, strings.Contains(pageText, "OVERLAY"),
		"inserted text should be extractable from page 1, got: %q", pageText)

	otherText, err := fz.Text(0)
	require.NoError(t, err)
	assert.False(t, strings.Contains(otherText, "OVERLAY"),
		"inserted text must not leak onto other pages")
}

func TestInsertText_OutOfRange(t *testing.T) {
	doc := openFixture(t, testpdf.Page{Text: "only"})

	err := doc.InsertText(1, 10, 10, "nope", 12)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))

	err = doc.InsertText(-1, 10, 10, "nope", 12)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))
}

func TestInsertText_Empty(t *testing.T) {
	doc := openFixture(t, testpdf.Page{Text: "only"})

	assert.Error(t, doc.InsertText(0, 10, 10, "", 12))
	assert.Error(t, doc.InsertText(0, 10, 10, "   ", 12))
}

func TestInsertText_DefaultFontSize(t *testing.T) {
	doc := openFixture(t, testpdf.Page{Text: "only"})

	// A non-positive size falls back to 12pt rather than failing.
	assert.NoError(t, doc.InsertText(0, 10, 10, "sized", 0))
}

func TestInsertText_FontSizes(t *testing.T) {
	doc := openFixture(t, testpdf.Page{Text: "only"})

	// Stamp sizes are whole points; any sane size must be accepted, with
	// fractional values truncated rather than rejected.
	for _, size := range []float64{4, 10.5, 12, 36.9, 144} {
		assert.NoError(t, doc.InsertText(0, 10, 10, "sized", size), "size %g", size)
	}
}
