package editor

import (
	"fmt"
	"strings"

	"github.com/VickyDev810/PlexiPDF/internal/document"
)

// Controller translates UI events into document operations and refreshes the
// displayed bitmap after any mutation. It owns at most one open document at
// a time and runs strictly sequentially on the UI event loop.
type Controller struct {
	view      View
	validator *document.Validator

	doc     *document.Document
	session *Session

	page int
	mode Mode

	dpi      float64
	fontSize float64

	// Dimensions of the last rendered bitmap, needed to map click positions
	// back into PDF user space.
	lastImgW int
	lastImgH int
}

// Options carries the tunables the controller needs from configuration.
type Options struct {
	RenderDPI   float64
	FontSize    float64
	MaxFileSize int64
}

// NewController creates a controller rendering through view.
func NewController(view View, opts Options) *Controller {
	if opts.RenderDPI <= 0 {
		opts.RenderDPI = 144
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 100 * 1024 * 1024
	}

	return &Controller{
		view:      view,
		validator: document.NewValidator(opts.MaxFileSize),
		session:   NewSession(),
		dpi:       opts.RenderDPI,
		fontSize:  opts.FontSize,
	}
}

// HasDocument reports whether a document is open.
func (c *Controller) HasDocument() bool {
	return c.doc != nil
}

// Document exposes the open document for read-only inspection; nil when no
// document is open.
func (c *Controller) Document() *document.Document {
	return c.doc
}

// Session exposes the current edit session.
func (c *Controller) Session() *Session {
	return c.session
}

// CurrentPage returns the zero-based index of the displayed page.
func (c *Controller) CurrentPage() int {
	return c.page
}

// PageCount returns the number of pages of the open document, 0 otherwise.
func (c *Controller) PageCount() int {
	if c.doc == nil {
		return 0
	}
	return c.doc.PageCount()
}

// Mode returns the current click mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// OpenDocument opens the PDF at path, replacing any open document. On
// failure the view shows an error and no document is open afterwards only if
// none was open before; an already open document stays untouched.
func (c *Controller) OpenDocument(path string) {
	if err := c.validator.Validate(path); err != nil {
		c.view.ShowError("Could not open PDF", err)
		return
	}

	doc, err := document.Open(path)
	if err != nil {
		c.view.ShowError("Could not open PDF", err)
		return
	}

	if c.doc != nil {
		_ = c.doc.Close()
	}

	c.doc = doc
	c.session = NewSession()
	c.page = 0
	c.mode = ModeNavigate

	c.view.SetDocumentLoaded(true)
	c.view.SetMode(c.mode)
	c.view.SetDirty(false)
	c.refresh()
}

// SaveDocument writes the current in-memory state to path. A failed save
// leaves the document and the session untouched.
func (c *Controller) SaveDocument(path string) {
	if c.doc == nil {
		return
	}

	if err := c.doc.Save(path); err != nil {
		c.view.ShowError("Could not save PDF", err)
		return
	}

	c.session.MarkSaved()
	c.view.SetDirty(false)
	c.view.ShowInfo("Saved", fmt.Sprintf("PDF saved to %s", path))
}

// CloseDocument releases the open document, if any.
func (c *Controller) CloseDocument() {
	if c.doc == nil {
		return
	}
	_ = c.doc.Close()
	c.doc = nil
	c.session = NewSession()
	c.page = 0
	c.view.SetDocumentLoaded(false)
	c.view.SetDirty(false)
}

// NextPage advances to the following page; past the last page it is a no-op.
func (c *Controller) NextPage() {
	if c.doc == nil || c.page >= c.doc.PageCount()-1 {
		return
	}
	c.page++
	c.refresh()
}

// PrevPage steps back one page; before the first page it is a no-op.
func (c *Controller) PrevPage() {
	if c.doc == nil || c.page <= 0 {
		return
	}
	c.page--
	c.refresh()
}

// GotoPage jumps to the zero-based page index; out-of-range indices are
// ignored.
func (c *Controller) GotoPage(index int) {
	if c.doc == nil || index < 0 || index >= c.doc.PageCount() || index == c.page {
		return
	}
	c.page = index
	c.refresh()
}

// SetMode switches between navigate and add-text click handling.
func (c *Controller) SetMode(mode Mode) {
	if c.doc == nil {
		return
	}
	c.mode = mode
	c.view.SetMode(mode)
}

// ToggleAddText flips the add-text mode on or off.
func (c *Controller) ToggleAddText(enabled bool) {
	if enabled {
		c.SetMode(ModeAddText)
	} else {
		c.SetMode(ModeNavigate)
	}
}

// PageClicked handles a click at (x, y) inside a display area of
// displayW x displayH showing the current page bitmap scaled to fit and
// centered. In navigate mode clicks are ignored; in add-text mode the
// position is mapped to PDF user space and the user is prompted for text.
func (c *Controller) PageClicked(x, y, displayW, displayH float64) {
	if c.doc == nil || c.mode != ModeAddText {
		return
	}

	px, py, ok := c.mapToPDF(x, y, displayW, displayH)
	if !ok {
		return // click landed in the padding around the page
	}

	page := c.page
	c.view.PromptText("Add Text", "Enter text:", func(text string, submitted bool) {
		if !submitted || strings.TrimSpace(text) == "" {
			return
		}
		if err := c.doc.InsertText(page, px, py, text, c.fontSize); err != nil {
			c.view.ShowError("Could not add text", err)
			return
		}
		c.session.RecordInsertion(TextInsertion{Page: page, X: px, Y: py, Text: text})
		c.view.SetDirty(true)
		c.refresh()
	})
}

// mapToPDF converts display coordinates (origin top-left) to PDF user space
// (origin bottom-left). Reports ok=false when the click is outside the page
// bitmap.
func (c *Controller) mapToPDF(x, y, displayW, displayH float64) (px, py float64, ok bool) {
	if c.lastImgW == 0 || c.lastImgH == 0 || displayW <= 0 || displayH <= 0 {
		return 0, 0, false
	}

	imgW := float64(c.lastImgW)
	imgH := float64(c.lastImgH)

	// Scale-to-fit, centered: the same layout the display widget uses.
	scale := displayW / imgW
	if s := displayH / imgH; s < scale {
		scale = s
	}
	drawnW := imgW * scale
	drawnH := imgH * scale
	offsetX := (displayW - drawnW) / 2
	offsetY := (displayH - drawnH) / 2

	xInImg := (x - offsetX) / scale
	yInImg := (y - offsetY) / scale
	if xInImg < 0 || xInImg > imgW || yInImg < 0 || yInImg > imgH {
		return 0, 0, false
	}

	pageW, pageH, err := c.doc.PageSize(c.page)
	if err != nil {
		return 0, 0, false
	}

	px = xInImg * (pageW / imgW)
	py = pageH - yInImg*(pageH/imgH) // flip to bottom-left origin
	return px, py, true
}

// FormFields returns the fields of the open document.
func (c *Controller) FormFields() ([]document.FormField, error) {
	if c.doc == nil {
		return nil, nil
	}
	return c.doc.FormFields()
}

// ApplyFieldEdits writes the given values into their fields, last write
// wins, then refreshes the display. Individual failures abort the whole
// batch and surface as a dialog.
func (c *Controller) ApplyFieldEdits(values map[string]string) {
	if c.doc == nil || len(values) == 0 {
		return
	}

	changed := false
	for name, value := range values {
		if err := c.doc.SetFieldValue(name, value); err != nil {
			c.view.ShowError("Could not update form field", err)
			return
		}
		c.session.RecordFieldWrite(name, value)
		changed = true
	}

	if changed {
		c.view.SetDirty(true)
		c.refresh()
	}
}

// refresh renders the current page and pushes it to the view.
func (c *Controller) refresh() {
	img, err := c.doc.RenderPage(c.page, c.dpi)
	if err != nil {
		c.view.ShowError("Could not render page", err)
		return
	}

	bounds := img.Bounds()
	c.lastImgW = bounds.Dx()
	c.lastImgH = bounds.Dy()

	c.view.DisplayPage(img, c.page+1, c.doc.PageCount())
}
