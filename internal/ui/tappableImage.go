package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// tappableImage shows the current image scaled to fit. A tap on the left
// third steps back, a tap anywhere else steps forward.
type tappableImage struct {
	widget.BaseWidget
	image      *canvas.Image
	onPrevious func()
	onNext     func()
}

func newTappableImage(onPrevious, onNext func()) *tappableImage {
	ti := &tappableImage{
		image:      &canvas.Image{},
		onPrevious: onPrevious,
		onNext:     onNext,
	}
	ti.image.FillMode = canvas.ImageFillContain
	ti.image.ScaleMode = canvas.ImageScaleSmooth
	ti.ExtendBaseWidget(ti)
	return ti
}

func (t *tappableImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.image)
}

func (t *tappableImage) Tapped(ev *fyne.PointEvent) {
	if tapsBack(ev.Position.X, t.Size().Width) {
		if t.onPrevious != nil {
			t.onPrevious()
		}
		return
	}
	if t.onNext != nil {
		t.onNext()
	}
}

// tapsBack reports whether a tap at x on a widget of the given width
// lands in its left third.
func tapsBack(x, width float32) bool {
	return width > 0 && x < width/3
}

// SetFile loads path into the canvas. An empty path clears it.
func (t *tappableImage) SetFile(path string) {
	t.image.File = path
	t.image.Resource = nil
	t.image.Image = nil
	t.image.Refresh()
}

// File returns the path on display.
func (t *tappableImage) File() string {
	return t.image.File
}
