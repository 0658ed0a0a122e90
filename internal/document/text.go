package document

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// InsertText burns text into the content stream of the zero-based page at
// (x, y) in PDF user space (origin bottom-left). Once inserted, the text is
// ordinary page content: it cannot be repositioned or removed.
func (d *Document) InsertText(page int, x, y float64, text string, fontSize float64) error {
	if d.closed {
		return ErrClosed
	}
	if page < 0 || page >= d.ctx.PageCount {
		return pageRangeError(page, d.ctx.PageCount)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if fontSize < 1 {
		fontSize = 12
	}

	// A stamp anchored at the lower-left corner with an absolute offset is
	// how pdfcpu expresses "draw this text at (x, y)". Stamp sizes are whole
	// points, so fractional sizes are truncated.
	desc := fmt.Sprintf(
		"fontname:Helvetica, points:%d, scalefactor:1 abs, position:bl, rotation:0, opacity:1, fillcolor:#000000",
		int(fontSize),
	)

	wm, err := pdfcpu.ParseTextWatermarkDetails(text, desc, true, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to prepare text stamp: %w", err)
	}
	wm.Dx = x
	wm.Dy = y

	selected := types.IntSet{page + 1: true}
	if err := pdfcpu.AddWatermarks(d.ctx, selected, wm); err != nil {
		return fmt.Errorf("failed to insert text on page %d: %w", page, err)
	}

	d.mutated()
	return nil
}
