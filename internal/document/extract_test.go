package document

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VickyDev810/PlexiPDF/internal/testpdf"
)

func TestExtractText(t *testing.T) {
	path := testpdf.WriteFile(t, t.TempDir(), "doc.pdf",
		testpdf.Page{Text: "alpha page"},
		testpdf.Page{Text: "beta page"},
	)

	text, err := ExtractText(path, 1024*1024)
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "alpha"), "got %q", text)
	assert.True(t, strings.Contains(text, "beta"), "got %q", text)
}

func TestExtractText_Truncated(t *testing.T) {
	path := testpdf.WriteFile(t, t.TempDir(), "doc.pdf",
		testpdf.Page{Text: "0123456789 0123456789 0123456789"},
	)

	text, err := ExtractText(path, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 10)
}

func TestExtractText_Corrupt(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"), 1024)
	assert.Error(t, err)
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than limit", "abc", 10, "abc"},
		{"exact limit", "abc", 3, "abc"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"cut inside two-byte rune", "abécd", 3, "ab"},
		{"cut after two-byte rune", "abécd", 4, "abé"},
		{"cut inside three-byte rune", "a€b", 2, "a"},
		{"cut inside four-byte rune", "\U0001F600x", 3, ""},
		{"zero limit", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateUTF8(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
