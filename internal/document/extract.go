package document

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of the PDF at path, truncated to
// maxBytes. Pages that fail to decode are skipped rather than aborting the
// whole extraction.
func ExtractText(path string, maxBytes int) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, ErrCorrupt)
	}
	defer f.Close()

	var builder strings.Builder
	total := 0

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if total+len(content) > maxBytes {
			if remaining := maxBytes - total; remaining > 0 {
				builder.WriteString(truncateUTF8(content, remaining))
			}
			break
		}

		builder.WriteString(content)
		total += len(content)

		if pageNum < reader.NumPage() {
			builder.WriteString("\n\n")
		}
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content could be extracted from %s", path)
	}
	return text, nil
}

// truncateUTF8 cuts s to at most max bytes without splitting a multi-byte
// rune at the cut point.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.RuneStart(cut[len(cut)-1]) {
		cut = cut[:len(cut)-1]
	}
	// A rune whose tail was cut off leaves a lone start byte behind.
	if r, size := utf8.DecodeLastRuneInString(cut); r == utf8.RuneError && size == 1 {
		cut = cut[:len(cut)-1]
	}
	return cut
}
