package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validator performs cheap pre-open checks on candidate files so the editor
// can reject obviously unusable paths before handing them to the document
// engine.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the specified size limit.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// Validate checks that path names a readable PDF within the size limit.
func (v *Validator) Validate(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.validateFileInfo(path, fileInfo); err != nil {
		return err
	}

	// Sniff the document structure without pulling it fully into memory.
	f, _, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrCorrupt)
	}
	defer f.Close()

	return nil
}

// IsValidPDF reports whether path passes all pre-open checks.
func (v *Validator) IsValidPDF(path string) bool {
	return v.Validate(path) == nil
}

// validateFileInfo performs checks that only need file metadata.
func (v *Validator) validateFileInfo(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("%s: %d bytes (max: %d bytes): %w",
			path, fileInfo.Size(), v.maxFileSize, ErrTooLarge)
	}

	return nil
}
