package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	noStarsMsg          = "No starred images yet.\nPress F to star the image on screen."
	noStarsMatchMsg     = "No starred images match your search."
	errorLoadingStarMsg = "Error loading starred images."
)

// starredView lists the starred images. Selecting one shows it, and the
// play button turns the whole list into the sequence.
type starredView struct {
	app *App

	all      []string
	filtered []string

	searchEntry  *widget.Entry
	list         *widget.List
	messageLabel *widget.Label
	content      fyne.CanvasObject
}

func newStarredView(a *App) *starredView {
	v := &starredView{app: a}

	v.searchEntry = widget.NewEntry()
	v.searchEntry.SetPlaceHolder("Search starred...")
	v.searchEntry.OnChanged = v.filter

	v.list = widget.NewList(
		func() int { return len(v.filtered) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("starred template")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(v.filtered) {
				return
			}
			obj.(*widget.Label).SetText(filepath.Base(v.filtered[id]))
		},
	)
	v.list.OnSelected = v.onSelected

	v.messageLabel = widget.NewLabel(noStarsMsg)
	v.messageLabel.Alignment = fyne.TextAlignCenter
	v.messageLabel.Wrapping = fyne.TextWrapWord

	refresh := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), v.reload)
	play := widget.NewButtonWithIcon("Show All", theme.MediaPlayIcon(), a.showStarred)

	v.content = container.NewBorder(
		container.NewBorder(nil, nil, nil, refresh, v.searchEntry),
		play,
		nil, nil,
		container.NewStack(v.list, v.messageLabel),
	)
	v.reload()
	return v
}

// reload fetches the starred paths from the settings store.
func (v *starredView) reload() {
	stars, err := v.app.Service.Settings.Stars()
	if err != nil {
		v.app.addLogMessage(fmt.Sprintf("Error loading starred images: %v", err))
		v.all = nil
		v.filtered = nil
		v.messageLabel.SetText(errorLoadingStarMsg)
		v.messageLabel.Show()
		v.list.Hide()
		return
	}
	v.all = stars
	v.filter(v.searchEntry.Text)
	v.list.UnselectAll()
}

func (v *starredView) filter(term string) {
	v.filtered = filterPaths(v.all, term)
	if len(v.filtered) == 0 {
		v.messageLabel.SetText(ternary(strings.TrimSpace(term) == "", noStarsMsg, noStarsMatchMsg))
		v.messageLabel.Show()
		v.list.Hide()
		return
	}
	v.messageLabel.Hide()
	v.list.Show()
	v.list.Refresh()
	v.list.ScrollToTop()
}

func (v *starredView) onSelected(id widget.ListItemID) {
	if id < 0 || id >= len(v.filtered) {
		return
	}
	v.app.Service.Navigator.SetCurrent(v.filtered[id])
}

// filterPaths keeps the paths whose file name contains term, ignoring case.
func filterPaths(paths []string, term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return paths
	}
	var out []string
	for _, p := range paths {
		if strings.Contains(strings.ToLower(filepath.Base(p)), term) {
			out = append(out, p)
		}
	}
	return out
}
