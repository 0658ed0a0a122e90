package document

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors surfaced by document operations. Callers match with
// errors.Is and render a dialog message; none of these are recoverable
// mid-operation. ErrNotExist wraps fs.ErrNotExist so callers using the
// standard sentinel match as well.
var (
	ErrNotExist       = fmt.Errorf("file does not exist: %w", fs.ErrNotExist)
	ErrCorrupt        = errors.New("corrupt or unreadable PDF")
	ErrEncrypted      = errors.New("encrypted PDF is not supported")
	ErrTooLarge       = errors.New("file exceeds maximum size")
	ErrPageOutOfRange = errors.New("page index out of range")
	ErrFieldNotFound  = errors.New("form field not found")
	ErrClosed         = errors.New("document is closed")
)

// pageRangeError decorates ErrPageOutOfRange with the offending index.
func pageRangeError(index, count int) error {
	return fmt.Errorf("page %d of %d: %w", index, count, ErrPageOutOfRange)
}
