package ui

import (
	"fmt"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func (a *App) nextImage() {
	_, err := a.Service.Navigator.Next()
	a.reportError("Next image", err)
}

func (a *App) previousImage() {
	_, err := a.Service.Navigator.Previous()
	a.reportError("Previous image", err)
}

func (a *App) firstImage() {
	if seq := a.Service.Navigator.Snapshot(); len(seq) > 0 {
		a.Service.Navigator.SetCurrent(seq[0])
	}
}

func (a *App) lastImage() {
	if seq := a.Service.Navigator.Snapshot(); len(seq) > 0 {
		a.Service.Navigator.SetCurrent(seq[len(seq)-1])
	}
}

func (a *App) shuffle() {
	a.reportError("Shuffle", a.Service.Navigator.Shuffle())
}

func (a *App) undoShuffle() {
	a.reportError("Undo shuffle", a.Service.Navigator.UndoShuffle())
}

func (a *App) randomImage() {
	_, err := a.Service.Navigator.Random()
	a.reportError("Random image", err)
}

func (a *App) undoRandom() {
	_, err := a.Service.Navigator.UndoRandom()
	a.reportError("Undo random", err)
}

func (a *App) togglePlay() {
	if err := a.Service.Slideshow.TogglePlayPause(); err != nil {
		a.reportError("Slideshow", err)
	}
	a.updatePlayIcon()
	a.updateStatusBar()
}

func (a *App) stopSlideshow() {
	a.Service.Slideshow.Stop()
	a.setBanner("")
}

func (a *App) toggleStar() {
	starred, err := a.Service.ToggleStar()
	if err != nil {
		a.reportError("Star", err)
		return
	}
	if starred {
		a.addLogMessage("Starred " + a.Service.Navigator.Current())
	} else {
		a.addLogMessage("Removed star from " + a.Service.Navigator.Current())
	}
	a.updateStarIcon()
	a.updateStatusBar()
	if a.UI.starred != nil {
		a.UI.starred.reload()
	}
}

func (a *App) showStarred() {
	go func() {
		n, err := a.Service.ShowStarred(a.ctx)
		fyne.Do(func() {
			if err != nil {
				a.reportError("Showing starred images", err)
				return
			}
			a.addLogMessage(fmt.Sprintf("Showing %d starred images", n))
		})
	}()
}

func (a *App) openFolder() {
	a.Service.Slideshow.PauseForOperation()
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		defer a.Service.Slideshow.ResumeAfterOperation()
		if err != nil {
			a.reportError("Open folder", err)
			return
		}
		if uri == nil {
			return
		}
		a.load([]string{uri.Path()})
	}, a.UI.MainWin)
	d.Show()
}

func (a *App) buildToolbar() *widget.Toolbar {
	a.UI.pauseAction = widget.NewToolbarAction(theme.MediaPlayIcon(), a.togglePlay)
	a.UI.starAction = widget.NewToolbarAction(theme.ContentAddIcon(), a.toggleStar)

	a.UI.toolBar = widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.openFolder),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaSkipPreviousIcon(), a.previousImage),
		a.UI.pauseAction,
		widget.NewToolbarAction(theme.MediaStopIcon(), a.stopSlideshow),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), a.nextImage),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), a.shuffle),
		widget.NewToolbarAction(theme.ContentUndoIcon(), a.undoShuffle),
		widget.NewToolbarAction(theme.SearchIcon(), a.randomImage),
		widget.NewToolbarAction(theme.NavigateBackIcon(), a.undoRandom),
		widget.NewToolbarSeparator(),
		a.UI.starAction,
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.SettingsIcon(), a.showTimingDialog),
		widget.NewToolbarAction(theme.HelpIcon(), a.showShortcuts),
	)
	return a.UI.toolBar
}

func (a *App) buildStatusBar() *fyne.Container {
	a.UI.statusPathLabel = widget.NewLabel("Ready")
	a.UI.statusPathLabel.Truncation = fyne.TextTruncateEllipsis

	a.UI.statusLogLabel = widget.NewLabel("")
	a.UI.statusLogUpBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), nil)
	a.UI.statusLogDownBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), nil)
	a.logUIManager = NewLogUIManager(a.UI.statusLogLabel, a.UI.statusLogUpBtn, a.UI.statusLogDownBtn, DefaultMaxLogMessages)
	a.UI.statusLogUpBtn.OnTapped = a.logUIManager.ShowPreviousLogMessage
	a.UI.statusLogDownBtn.OnTapped = a.logUIManager.ShowNextLogMessage
	a.logUIManager.UpdateLogDisplay()

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil,
			container.NewHBox(a.UI.statusLogUpBtn, a.UI.statusLogDownBtn),
			a.UI.statusPathLabel,
		),
		a.UI.statusLogLabel,
	)
}

func (a *App) buildMainUI() fyne.CanvasObject {
	a.UI.MainWin.SetMaster()
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		a.UI.mainModKey = fyne.KeyModifierSuper
	} else {
		a.UI.mainModKey = fyne.KeyModifierControl
	}

	toolbar := a.buildToolbar()
	status := a.buildStatusBar()

	a.UI.bannerLabel = widget.NewLabel("")
	a.UI.bannerLabel.Alignment = fyne.TextAlignCenter
	a.UI.bannerLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.UI.bannerLabel.Hide()

	// image canvas: tap the left third to go back, anywhere else to go on
	a.UI.image = newTappableImage(a.previousImage, a.nextImage)

	a.UI.starred = newStarredView(a)

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open Folder...", a.openFolder),
			fyne.NewMenuItem("Show Starred Images", a.showStarred),
		),
		fyne.NewMenu("View",
			fyne.NewMenuItem("Next Image", a.nextImage),
			fyne.NewMenuItem("Previous Image", a.previousImage),
			fyne.NewMenuItem("First Image", a.firstImage),
			fyne.NewMenuItem("Last Image", a.lastImage),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Shuffle", a.shuffle),
			fyne.NewMenuItem("Undo Shuffle", a.undoShuffle),
			fyne.NewMenuItem("Random Image", a.randomImage),
			fyne.NewMenuItem("Undo Random", a.undoRandom),
		),
		fyne.NewMenu("Slideshow",
			fyne.NewMenuItem("Play / Pause", a.togglePlay),
			fyne.NewMenuItem("Stop", a.stopSlideshow),
			fyne.NewMenuItem("Timing...", a.showTimingDialog),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
			fyne.NewMenuItem("About", func() {
				dialog.ShowInformation("About", "PoseShow\nTimed slideshows for gesture and figure drawing practice.", a.UI.MainWin)
			}),
		),
	)
	a.UI.MainWin.SetMainMenu(mainMenu)
	a.buildKeyboardShortcuts()

	split := container.NewHSplit(
		container.NewBorder(a.UI.bannerLabel, nil, nil, nil, a.UI.image),
		container.NewAppTabs(
			container.NewTabItemWithIcon("Starred", theme.ConfirmIcon(), a.UI.starred.content),
		),
	)
	split.SetOffset(0.85)

	return container.NewBorder(
		toolbar, // Top
		status,  // Bottom
		nil,
		nil,
		container.New(layout.NewStackLayout(), split),
	)
}
