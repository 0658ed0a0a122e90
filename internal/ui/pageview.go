package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// pageView displays the rendered page bitmap scaled to fit and reports tap
// positions together with the widget dimensions, which the controller needs
// to map the tap back into page coordinates.
type pageView struct {
	widget.BaseWidget

	image    *canvas.Image
	onTapped func(x, y, width, height float64)
}

func newPageView(onTapped func(x, y, width, height float64)) *pageView {
	p := &pageView{onTapped: onTapped}
	p.image = canvas.NewImageFromImage(nil)
	p.image.FillMode = canvas.ImageFillContain
	p.image.SetMinSize(fyne.NewSize(400, 500))
	p.ExtendBaseWidget(p)
	return p
}

func (p *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.image)
}

// Tapped implements fyne.Tappable.
func (p *pageView) Tapped(ev *fyne.PointEvent) {
	if p.onTapped == nil {
		return
	}
	size := p.Size()
	p.onTapped(float64(ev.Position.X), float64(ev.Position.Y),
		float64(size.Width), float64(size.Height))
}

// SetImage swaps the displayed bitmap.
func (p *pageView) SetImage(img image.Image) {
	p.image.Image = img
	p.image.Refresh()
}
