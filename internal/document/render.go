package document

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// rasterizer turns the serialized document into page bitmaps via MuPDF.
// It is rebuilt lazily whenever the document generation changes, so rendered
// pages always reflect the latest field edits and inserted text.
type rasterizer struct {
	doc        *fitz.Document
	generation uint64
	pages      map[int]image.Image // rendered page cache, keyed by page index
	dpi        float64
}

func newRasterizer() *rasterizer {
	return &rasterizer{pages: make(map[int]image.Image)}
}

func (r *rasterizer) Close() error {
	if r.doc != nil {
		err := r.doc.Close()
		r.doc = nil
		return err
	}
	return nil
}

// refresh reopens the raster engine from the serialized document when the
// cached engine is stale.
func (r *rasterizer) refresh(d *Document, dpi float64) error {
	if r.doc != nil && r.generation == d.generation && r.dpi == dpi {
		return nil
	}

	data, err := d.Bytes()
	if err != nil {
		return err
	}

	if r.doc != nil {
		_ = r.doc.Close()
		r.doc = nil
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return fmt.Errorf("failed to open document for rendering: %w", err)
	}

	r.doc = doc
	r.generation = d.generation
	r.dpi = dpi
	r.pages = make(map[int]image.Image)
	return nil
}

// RenderPage rasterizes the zero-based page index at the given resolution.
// Rendered pages are cached until the next mutation.
func (d *Document) RenderPage(index int, dpi float64) (image.Image, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if index < 0 || index >= d.ctx.PageCount {
		return nil, pageRangeError(index, d.ctx.PageCount)
	}

	if err := d.raster.refresh(d, dpi); err != nil {
		return nil, err
	}

	if img, ok := d.raster.pages[index]; ok {
		return img, nil
	}

	img, err := d.raster.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index, err)
	}

	d.raster.pages[index] = img
	return img, nil
}
