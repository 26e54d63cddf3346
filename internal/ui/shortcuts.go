// Package ui  Shortcuts for keyboard actions
package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

type shortcut struct {
	keys        string
	description string
}

var shortcuts = []shortcut{
	{"Ctrl+Q", "Quit Application"},
	{"Arrow Right", "Next Image"},
	{"Arrow Left", "Previous Image"},
	{"Home", "First Image"},
	{"End", "Last Image"},
	{"P or Space", "Play / Pause Slideshow"},
	{"Backspace", "Stop Slideshow"},
	{"S", "Shuffle"},
	{"Ctrl+Z", "Undo Shuffle"},
	{"R", "Random Image"},
	{"U", "Undo Random Image"},
	{"F", "Star / Unstar Image"},
	{"Ctrl+O", "Open Folder"},
	{"Ctrl+T", "Slideshow Timing"},
	{"Esc", "Close Dialog"},
}

func (a *App) buildKeyboardShortcuts() {
	canvas := a.UI.MainWin.Canvas()

	// ctrl+q to quit application
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.app.Quit() })
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.undoShuffle() })
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.openFolder() })
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyT,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.showTimingDialog() })

	canvas.SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyRight:
			a.nextImage()
		case fyne.KeyLeft:
			a.previousImage()
		case fyne.KeyHome:
			a.firstImage()
		case fyne.KeyEnd:
			a.lastImage()
		case fyne.KeyP, fyne.KeySpace:
			a.togglePlay()
		case fyne.KeyBackspace:
			a.stopSlideshow()
		case fyne.KeyS:
			a.shuffle()
		case fyne.KeyR:
			a.randomImage()
		case fyne.KeyU:
			a.undoRandom()
		case fyne.KeyF:
			a.toggleStar()
		// close dialogs with esc key
		case fyne.KeyEscape:
			if top := canvas.Overlays().Top(); top != nil {
				top.Hide()
			}
		}
	})
}

func (a *App) showShortcuts() {
	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(shortcuts) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			label.TextStyle.Bold = id.Row == 0
			label.SetText(shortcutCell(id.Row, id.Col))
		},
	)
	table.SetColumnWidth(0, 250)
	table.SetColumnWidth(1, 150)
	win.SetContent(table)
	win.Resize(fyne.NewSize(420, 520))
	win.Show()
}

// shortcutCell returns the text of a shortcut table cell. Row 0 is the header.
func shortcutCell(row, col int) string {
	if row == 0 {
		return ternary(col == 0, "Description", "Shortcut")
	}
	s := shortcuts[row-1]
	return ternary(col == 0, s.description, s.keys)
}

func ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
