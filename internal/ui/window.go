package ui

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/VickyDev810/PlexiPDF/internal/config"
	"github.com/VickyDev810/PlexiPDF/internal/editor"
)

// Window is the desktop front-end. It implements editor.View and forwards
// every user action to the controller.
type Window struct {
	app        fyne.App
	win        fyne.Window
	controller *editor.Controller

	cfg *config.Config

	page         *pageView
	pageEntry    *widget.Entry
	pageTotal    *widget.Label
	prevButton   *widget.Button
	nextButton   *widget.Button
	saveButton   *widget.Button
	fieldsButton *widget.Button
	addTextCheck *widget.Check

	dirty bool
}

// NewWindow builds the main window and its controller.
func NewWindow(cfg *config.Config) *Window {
	a := app.New()

	w := &Window{
		app: a,
		win: a.NewWindow(cfg.AppName),
		cfg: cfg,
	}
	w.controller = editor.NewController(w, editor.Options{
		RenderDPI:   cfg.RenderDPI,
		FontSize:    cfg.FontSize,
		MaxFileSize: cfg.MaxFileSize,
	})

	w.buildUI()
	w.win.Resize(fyne.NewSize(1000, 800))
	w.win.SetCloseIntercept(w.confirmClose)

	return w
}

// Run shows the window and enters the event loop. When path is non-empty the
// document is opened immediately.
func (w *Window) Run(path string) {
	if path != "" {
		w.controller.OpenDocument(path)
	}
	w.win.ShowAndRun()
}

func (w *Window) buildUI() {
	w.page = newPageView(w.controller.PageClicked)

	w.pageEntry = widget.NewEntry()
	w.pageEntry.SetText("1")
	w.pageEntry.OnSubmitted = func(s string) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			w.syncPageEntry()
			return
		}
		w.controller.GotoPage(n - 1)
		w.syncPageEntry()
	}
	w.pageTotal = widget.NewLabel("of 0")

	w.prevButton = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), w.controller.PrevPage)
	w.nextButton = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), w.controller.NextPage)

	openButton := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), w.openDialog)
	w.saveButton = widget.NewButtonWithIcon("Save As", theme.DocumentSaveIcon(), w.saveDialog)
	w.fieldsButton = widget.NewButton("Form Fields", w.fieldsDialog)
	w.addTextCheck = widget.NewCheck("Add Text", w.controller.ToggleAddText)

	w.win.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open...", w.openDialog),
			fyne.NewMenuItem("Save As...", w.saveDialog),
		),
		fyne.NewMenu("Edit",
			fyne.NewMenuItem("Form Fields...", w.fieldsDialog),
		),
	))

	toolbar := container.NewHBox(
		openButton,
		w.saveButton,
		widget.NewSeparator(),
		w.fieldsButton,
		w.addTextCheck,
	)
	navbar := container.NewHBox(
		w.prevButton,
		widget.NewLabel("Page"),
		w.pageEntry,
		w.pageTotal,
		w.nextButton,
	)

	w.win.SetContent(container.NewBorder(
		toolbar,
		container.NewCenter(navbar),
		nil, nil,
		container.NewScroll(w.page),
	))

	w.SetDocumentLoaded(false)
}

func (w *Window) openDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if reader == nil {
			return // cancelled
		}
		path := reader.URI().Path()
		_ = reader.Close()
		w.controller.OpenDocument(path)
	}, w.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}

func (w *Window) saveDialog() {
	if !w.controller.HasDocument() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		path := writer.URI().Path()
		_ = writer.Close()
		w.controller.SaveDocument(path)
	}, w.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.SetFileName("edited.pdf")
	d.Show()
}

// fieldsDialog lists every form field with an editable value. On confirm the
// changed values are written back into the document.
func (w *Window) fieldsDialog() {
	fields, err := w.controller.FormFields()
	if err != nil {
		w.ShowError("Could not read form fields", err)
		return
	}
	if len(fields) == 0 {
		w.ShowInfo("Form Fields", "This document has no form fields.")
		return
	}

	entries := make(map[string]*widget.Entry, len(fields))
	items := make([]*widget.FormItem, 0, len(fields))
	for _, f := range fields {
		entry := widget.NewEntry()
		entry.SetText(f.Value)
		if f.ReadOnly {
			entry.Disable()
		}
		entries[f.Name] = entry

		label := fmt.Sprintf("%s (page %d)", f.Name, f.Page+1)
		items = append(items, widget.NewFormItem(label, entry))
	}

	original := make(map[string]string, len(fields))
	for _, f := range fields {
		original[f.Name] = f.Value
	}

	dialog.ShowForm("Form Fields", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		changed := make(map[string]string)
		for name, entry := range entries {
			if entry.Disabled() {
				continue
			}
			if entry.Text != original[name] {
				changed[name] = entry.Text
			}
		}
		w.controller.ApplyFieldEdits(changed)
	}, w.win)
}

// confirmClose warns about unsaved modifications before quitting.
func (w *Window) confirmClose() {
	if !w.dirty {
		w.app.Quit()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"The document has unsaved changes. Quit anyway?",
		func(ok bool) {
			if ok {
				w.app.Quit()
			}
		}, w.win)
}

func (w *Window) syncPageEntry() {
	if !w.controller.HasDocument() {
		return
	}
	w.pageEntry.SetText(strconv.Itoa(w.controller.CurrentPage() + 1))
}

func (w *Window) updateTitle() {
	title := w.cfg.AppName
	if doc := w.controller.Document(); doc != nil {
		title = fmt.Sprintf("%s - %s", w.cfg.AppName, doc.Path())
	}
	if w.dirty {
		title += " *"
	}
	w.win.SetTitle(title)
}

// DisplayPage implements editor.View.
func (w *Window) DisplayPage(img image.Image, page, total int) {
	w.page.SetImage(img)
	w.pageEntry.SetText(strconv.Itoa(page))
	w.pageTotal.SetText(fmt.Sprintf("of %d", total))
}

// ShowError implements editor.View.
func (w *Window) ShowError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), w.win)
}

// ShowInfo implements editor.View.
func (w *Window) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, w.win)
}

// PromptText implements editor.View.
func (w *Window) PromptText(title, prompt string, submit func(text string, ok bool)) {
	entry := widget.NewEntry()
	items := []*widget.FormItem{widget.NewFormItem(prompt, entry)}
	dialog.ShowForm(title, "Add", "Cancel", items, func(ok bool) {
		submit(entry.Text, ok)
	}, w.win)
}

// SetMode implements editor.View.
func (w *Window) SetMode(mode editor.Mode) {
	w.addTextCheck.SetChecked(mode == editor.ModeAddText)
}

// SetDirty implements editor.View.
func (w *Window) SetDirty(dirty bool) {
	w.dirty = dirty
	w.updateTitle()
}

// SetDocumentLoaded implements editor.View.
func (w *Window) SetDocumentLoaded(loaded bool) {
	buttons := []*widget.Button{w.prevButton, w.nextButton, w.saveButton, w.fieldsButton}
	for _, b := range buttons {
		if loaded {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	if loaded {
		w.addTextCheck.Enable()
		w.pageEntry.Enable()
	} else {
		w.addTextCheck.Disable()
		w.addTextCheck.SetChecked(false)
		w.pageEntry.Disable()
		w.pageTotal.SetText("of 0")
		w.page.SetImage(nil)
	}
	w.updateTitle()
}
