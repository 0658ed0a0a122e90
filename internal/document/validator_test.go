package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VickyDev810/PlexiPDF/internal/testpdf"
)

func TestValidator_Validate(t *testing.T) {
	dir := t.TempDir()
	valid := testpdf.WriteFile(t, dir, "valid.pdf", testpdf.Page{Text: "ok"})

	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	notPDF := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notPDF, []byte("text"), 0o644))

	garbage := filepath.Join(dir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("garbage bytes"), 0o644))

	subdir := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	v := NewValidator(1024 * 1024)

	tests := []struct {
		name    string
		path    string
		wantErr bool
		errIs   error
	}{
		{name: "valid pdf", path: valid},
		{name: "missing file", path: filepath.Join(dir, "gone.pdf"), wantErr: true, errIs: ErrNotExist},
		{name: "empty path", path: "", wantErr: true},
		{name: "directory", path: subdir, wantErr: true},
		{name: "empty file", path: empty, wantErr: true},
		{name: "wrong extension", path: notPDF, wantErr: true},
		{name: "garbage content", path: garbage, wantErr: true, errIs: ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.True(t, errors.Is(err, tt.errIs), "expected %v, got %v", tt.errIs, err)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := testpdf.WriteFile(t, dir, "big.pdf", testpdf.Page{Text: "big"})

	v := NewValidator(8) // smaller than any real PDF
	err := v.Validate(path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestValidator_IsValidPDF(t *testing.T) {
	dir := t.TempDir()
	valid := testpdf.WriteFile(t, dir, "valid.pdf", testpdf.Page{Text: "ok"})

	v := NewValidator(1024 * 1024)

	assert.True(t, v.IsValidPDF(valid))
	assert.False(t, v.IsValidPDF(filepath.Join(dir, "missing.pdf")))
}
