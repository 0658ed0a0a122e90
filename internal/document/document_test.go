package document

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VickyDev810/PlexiPDF/internal/testpdf"
)

func TestOpen_NotExist(t *testing.T) {
	doc, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotExist), "expected ErrNotExist, got %v", err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "ErrNotExist must match the fs sentinel")
	assert.Nil(t, doc, "a failed open must leave no open document")
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	doc, err := Open(path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt), "expected ErrCorrupt, got %v", err)
	assert.Nil(t, doc)
}

func TestOpen_Encrypted(t *testing.T) {
	dir := t.TempDir()
	plain := testpdf.WriteFile(t, dir, "plain.pdf", testpdf.Page{Text: "secret"})
	encrypted := filepath.Join(dir, "encrypted.pdf")

	conf := model.NewDefaultConfiguration()
	conf.UserPW = "hunter2"
	conf.OwnerPW = "hunter2"
	require.NoError(t, api.EncryptFile(plain, encrypted, conf))

	doc, err := Open(encrypted)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncrypted), "expected ErrEncrypted, got %v", err)
	assert.Nil(t, doc)
}

func TestOpen_Valid(t *testing.T) {
	path := testpdf.WriteFile(t, t.TempDir(), "two-pages.pdf",
		testpdf.Page{Text: "first page"},
		testpdf.Page{Text: "second page"},
	)

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, 2, doc.PageCount())
	assert.Equal(t, path, doc.Path())

	w, h, err := doc.PageSize(0)
	require.NoError(t, err)
	assert.InDelta(t, 612.0, w, 0.5)
	assert.InDelta(t, 792.0, h, 0.5)
}

func TestPageSize_OutOfRange(t *testing.T) {
	path := testpdf.WriteFile(t, t.TempDir(), "single.pdf", testpdf.Page{Text: "only page"})

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	_, _, err = doc.PageSize(1)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))

	_, _, err = doc.PageSize(-1)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))
}

func TestSave_RoundTripWithoutEdits(t *testing.T) {
	dir := t.TempDir()
	path := testpdf.WriteFile(t, dir, "in.pdf",
		testpdf.Page{
			Text:   "body",
			Fields: []testpdf.Field{{Name: "Name", Value: "Ada"}},
		},
	)

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, doc.Save(out))

	// Semantically equivalent: same structure and same field values.
	reopened, err := Open(out)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, doc.PageCount(), reopened.PageCount())

	fields, err := reopened.FormFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Name", fields[0].Name)
	assert.Equal(t, "Ada", fields[0].Value)
}

func TestSave_InvalidPathLeavesDocumentIntact(t *testing.T) {
	path := testpdf.WriteFile(t, t.TempDir(), "in.pdf", testpdf.Page{Text: "body"})

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	err = doc.Save(filepath.Join(t.TempDir(), "no", "such", "dir", "out.pdf"))
	require.Error(t, err)

	// The in-memory document is still usable after the failed save.
	assert.Equal(t, 1, doc.PageCount())
	_, _, err = doc.PageSize(0)
	assert.NoError(t, err)
}

func TestClose(t *testing.T) {
	path := testpdf.WriteFile(t, t.TempDir(), "in.pdf", testpdf.Page{Text: "body"})

	doc, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, doc.Close())
	require.NoError(t, doc.Close(), "closing twice must be safe")

	assert.Equal(t, 0, doc.PageCount())
	assert.ErrorIs(t, doc.Save(path), ErrClosed)
	assert.ErrorIs(t, doc.SetFieldValue("x", "y"), ErrClosed)
	assert.ErrorIs(t, doc.InsertText(0, 1, 1, "t", 12), ErrClosed)
	_, err = doc.RenderPage(0, 72)
	assert.ErrorIs(t, err, ErrClosed)
}
