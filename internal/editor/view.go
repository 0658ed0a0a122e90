package editor

import "image"

// Mode selects what a click on the page means.
type Mode int

const (
	// ModeNavigate is the default; clicks on the page are ignored.
	ModeNavigate Mode = iota
	// ModeAddText turns a click into a text insertion at that position.
	ModeAddText
)

// View is the surface the controller drives. The Fyne front-end implements
// it for the desktop; tests substitute a fake.
//
// All calls happen synchronously on the UI event loop.
type View interface {
	// DisplayPage shows the rendered bitmap of page (1-based) of total.
	DisplayPage(img image.Image, page, total int)

	// ShowError presents a dialog for an aborted action. The document state
	// is unchanged when this is called.
	ShowError(title string, err error)

	// ShowInfo presents a confirmation dialog.
	ShowInfo(title, message string)

	// PromptText asks the user for a line of text. submit is invoked with
	// ok=false when the prompt is dismissed.
	PromptText(title, prompt string, submit func(text string, ok bool))

	// SetMode reflects the current click mode (cursor, toggle state).
	SetMode(mode Mode)

	// SetDirty reflects whether unsaved modifications exist.
	SetDirty(dirty bool)

	// SetDocumentLoaded enables or disables the editing controls.
	SetDocumentLoaded(loaded bool)
}
