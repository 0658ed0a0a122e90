package editor

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VickyDev810/PlexiPDF/internal/testpdf"
)

// fakeView records controller calls and answers text prompts with a canned
// response.
type fakeView struct {
	lastImg   image.Image
	lastPage  int
	lastTotal int
	displays  int

	errors []string
	infos  []string

	mode   Mode
	dirty  bool
	loaded bool

	promptText   string
	promptOK     bool
	promptCalled int
}

func (v *fakeView) DisplayPage(img image.Image, page, total int) {
	v.lastImg = img
	v.lastPage = page
	v.lastTotal = total
	v.displays++
}

func (v *fakeView) ShowError(title string, err error) {
	v.errors = append(v.errors, title+": "+err.Error())
}

func (v *fakeView) ShowInfo(title, message string) {
	v.infos = append(v.infos, title+": "+message)
}

func (v *fakeView) PromptText(title, prompt string, submit func(string, bool)) {
	v.promptCalled++
	submit(v.promptText, v.promptOK)
}

func (v *fakeView) SetMode(mode Mode)         { v.mode = mode }
func (v *fakeView) SetDirty(dirty bool)       { v.dirty = dirty }
func (v *fakeView) SetDocumentLoaded(ok bool) { v.loaded = ok }

func newTestController(t *testing.T) (*Controller, *fakeView, string) {
	t.Helper()

	path := testpdf.WriteFile(t, t.TempDir(), "doc.pdf",
		testpdf.Page{Text: "first", Fields: []testpdf.Field{{Name: "name", Value: "old"}}},
		testpdf.Page{Text: "second"},
		testpdf.Page{Text: "third"},
	)

	view := &fakeView{}
	c := NewController(view, Options{RenderDPI: 72, FontSize: 12})
	return c, view, path
}

func TestOpenDocument(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()

	c.OpenDocument(path)

	require.True(t, c.HasDocument())
	assert.Empty(t, view.errors)
	assert.True(t, view.loaded)
	assert.False(t, view.dirty)
	assert.Equal(t, ModeNavigate, c.Mode())
	assert.Equal(t, 0, c.CurrentPage())
	assert.Equal(t, 3, c.PageCount())
	assert.Equal(t, 1, view.lastPage)
	assert.Equal(t, 3, view.lastTotal)
	require.NotNil(t, view.lastImg)
}

func TestOpenDocument_Missing(t *testing.T) {
	view := &fakeView{}
	c := NewController(view, Options{})

	c.OpenDocument(filepath.Join(t.TempDir(), "nope.pdf"))

	assert.False(t, c.HasDocument())
	assert.Len(t, view.errors, 1)
	assert.False(t, view.loaded)
}

func TestNavigation(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	c.NextPage()
	assert.Equal(t, 1, c.CurrentPage())
	c.NextPage()
	assert.Equal(t, 2, c.CurrentPage())
	c.NextPage() // past the end, no-op
	assert.Equal(t, 2, c.CurrentPage())
	assert.Equal(t, 3, view.lastPage)

	c.PrevPage()
	assert.Equal(t, 1, c.CurrentPage())
	c.PrevPage()
	c.PrevPage() // before the start, no-op
	assert.Equal(t, 0, c.CurrentPage())

	c.GotoPage(2)
	assert.Equal(t, 2, c.CurrentPage())
	c.GotoPage(99) // ignored
	assert.Equal(t, 2, c.CurrentPage())
	c.GotoPage(-1) // ignored
	assert.Equal(t, 2, c.CurrentPage())

	assert.Empty(t, view.errors)
}

func TestNavigation_NoDocument(t *testing.T) {
	view := &fakeView{}
	c := NewController(view, Options{})

	c.NextPage()
	c.PrevPage()
	c.GotoPage(1)

	assert.Equal(t, 0, view.displays)
	assert.Empty(t, view.errors)
}

func TestToggleAddText(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	c.ToggleAddText(true)
	assert.Equal(t, ModeAddText, c.Mode())
	assert.Equal(t, ModeAddText, view.mode)

	c.ToggleAddText(false)
	assert.Equal(t, ModeNavigate, c.Mode())
}

func TestPageClicked_AddsText(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	view.promptText = "hello"
	view.promptOK = true
	c.ToggleAddText(true)

	displays := view.displays
	// Display area matches the bitmap exactly so the mapping is direct.
	c.PageClicked(100, 100, float64(c.lastImgW), float64(c.lastImgH))

	assert.Equal(t, 1, view.promptCalled)
	assert.Empty(t, view.errors)
	assert.True(t, view.dirty)
	assert.True(t, c.Session().Dirty())
	assert.Greater(t, view.displays, displays)

	ins := c.Session().Insertions()
	require.Len(t, ins, 1)
	assert.Equal(t, 0, ins[0].Page)
	assert.Equal(t, "hello", ins[0].Text)
	assert.InDelta(t, 100, ins[0].X, 0.5)
	// Click 100px from the top of a 792pt page rendered at 72 DPI.
	assert.InDelta(t, 692, ins[0].Y, 0.5)
}

func TestPageClicked_NavigateModeIgnored(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	view.promptText = "hello"
	view.promptOK = true
	c.PageClicked(100, 100, float64(c.lastImgW), float64(c.lastImgH))

	assert.Equal(t, 0, view.promptCalled)
	assert.False(t, view.dirty)
}

func TestPageClicked_DismissedPrompt(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	view.promptOK = false
	c.ToggleAddText(true)
	c.PageClicked(50, 50, float64(c.lastImgW), float64(c.lastImgH))

	assert.Equal(t, 1, view.promptCalled)
	assert.False(t, view.dirty)
	assert.Equal(t, 0, c.Session().EditCount())
}

func TestPageClicked_OutsidePage(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	view.promptText = "hello"
	view.promptOK = true
	c.ToggleAddText(true)

	// Display twice as wide as the drawn page; a click at x=1 lands in the
	// left padding.
	c.PageClicked(1, 100, float64(c.lastImgW)*2, float64(c.lastImgH))

	assert.Equal(t, 0, view.promptCalled)
}

func TestMapToPDF_CenteredAndScaled(t *testing.T) {
	c, _, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	imgW := float64(c.lastImgW)
	imgH := float64(c.lastImgH)

	// Bitmap shown at half scale, centered in a display twice as wide as
	// the drawn page. Click the page center.
	displayW := imgW
	displayH := imgH / 2
	px, py, ok := c.mapToPDF(displayW/2, displayH/2, displayW, displayH)
	require.True(t, ok)

	pageW, pageH, err := c.Document().PageSize(0)
	require.NoError(t, err)
	assert.InDelta(t, pageW/2, px, 0.5)
	assert.InDelta(t, pageH/2, py, 0.5)
}

func TestApplyFieldEdits(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	c.ApplyFieldEdits(map[string]string{"name": "new value"})

	assert.Empty(t, view.errors)
	assert.True(t, view.dirty)

	fields, err := c.FormFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "new value", fields[0].Value)
}

func TestApplyFieldEdits_UnknownField(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	c.ApplyFieldEdits(map[string]string{"missing": "x"})

	assert.Len(t, view.errors, 1)
}

func TestSaveDocument(t *testing.T) {
	c, view, path := newTestController(t)
	defer c.CloseDocument()
	c.OpenDocument(path)

	c.ApplyFieldEdits(map[string]string{"name": "saved"})
	require.True(t, c.Session().Dirty())

	out := filepath.Join(t.TempDir(), "out.pdf")
	c.SaveDocument(out)

	assert.Empty(t, view.errors)
	assert.Len(t, view.infos, 1)
	assert.False(t, view.dirty)
	assert.False(t, c.Session().Dirty())
	assert.FileExists(t, out)
}

func TestCloseDocument(t *testing.T) {
	c, view, path := newTestController(t)
	c.OpenDocument(path)

	c.CloseDocument()
	assert.False(t, c.HasDocument())
	assert.False(t, view.loaded)

	c.CloseDocument() // idempotent
	assert.False(t, c.HasDocument())
}
