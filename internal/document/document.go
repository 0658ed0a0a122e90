package document

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is an opened PDF. The pdfcpu context is the single source of
// truth: edits mutate it in place immediately, and Save serializes whatever
// state it holds. A crash before Save loses all edits.
//
// A Document is not safe for concurrent use; the editor drives it strictly
// sequentially from the UI event loop.
type Document struct {
	path   string
	ctx    *model.Context
	raster *rasterizer

	// generation increments on every mutation so stale rendered pages are
	// never served from the cache.
	generation uint64
	closed     bool
}

// Open reads and validates the PDF at path and returns a Document ready for
// rendering and editing.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
		}
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, classifyReadError(err))
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", path, classifyReadError(err))
	}

	// Watermarking and page dict lookups need the optimized object graph.
	if err := api.OptimizeContext(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", path, classifyReadError(err))
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrCorrupt)
	}

	return &Document{
		path:   path,
		ctx:    ctx,
		raster: newRasterizer(),
	}, nil
}

// classifyReadError maps pdfcpu read failures onto the sentinel errors the
// UI knows how to present.
func classifyReadError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") {
		return fmt.Errorf("%w: %s", ErrEncrypted, err)
	}
	return fmt.Errorf("%w: %s", ErrCorrupt, err)
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.ctx.PageCount
}

// PageSize returns the width and height of page index in PDF points.
// Page indices are zero-based.
func (d *Document) PageSize(index int) (width, height float64, err error) {
	if d.closed {
		return 0, 0, ErrClosed
	}
	if index < 0 || index >= d.ctx.PageCount {
		return 0, 0, pageRangeError(index, d.ctx.PageCount)
	}

	dims, err := d.ctx.PageDims()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	if index >= len(dims) {
		return 0, 0, pageRangeError(index, len(dims))
	}
	return dims[index].Width, dims[index].Height, nil
}

// Save writes the current in-memory document state to path. A failed save
// leaves the in-memory document unchanged.
func (d *Document) Save(path string) error {
	if d.closed {
		return ErrClosed
	}
	if err := api.WriteContextFile(d.ctx, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Bytes serializes the current in-memory document state.
func (d *Document) Bytes() ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the raster engine. The Document must not be used afterwards.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.ctx = nil
	return d.raster.Close()
}

// mutated marks the in-memory state as changed so cached rendered pages are
// discarded on the next render.
func (d *Document) mutated() {
	d.generation++
}

// pageDict resolves the page dictionary for a zero-based page index.
func (d *Document) pageDict(index int) (types.Dict, error) {
	if index < 0 || index >= d.ctx.PageCount {
		return nil, pageRangeError(index, d.ctx.PageCount)
	}
	pageDict, _, _, err := d.ctx.PageDict(index+1, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page %d: %w", index, err)
	}
	if pageDict == nil {
		return nil, pageRangeError(index, d.ctx.PageCount)
	}
	return pageDict, nil
}
