// Package ui  Setup for the PoseShow Application
package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"poseshow/internal/config"
	"poseshow/internal/navigator"
	"poseshow/internal/service"
	"poseshow/internal/settings"
	"poseshow/internal/slideshow"
)

// UI holds the widgets the App updates after it has been built.
type UI struct {
	MainWin    fyne.Window
	mainModKey fyne.KeyModifier

	image            *tappableImage
	bannerLabel      *widget.Label
	statusPathLabel  *widget.Label
	statusLogLabel   *widget.Label
	statusLogUpBtn   *widget.Button
	statusLogDownBtn *widget.Button

	toolBar     *widget.Toolbar
	pauseAction *widget.ToolbarAction
	starAction  *widget.ToolbarAction

	starred *starredView
}

// App represents the whole application with all its windows, widgets and functions
type App struct {
	app fyne.App
	UI  UI

	Service      *service.Service
	logUIManager *LogUIManager
	ctx          context.Context
	cancel       context.CancelFunc
}

// addLogMessage adds a message to the UI log display. It must run on the
// Fyne goroutine.
func (a *App) addLogMessage(message string) {
	if a.logUIManager != nil {
		a.logUIManager.AddLogMessage(message)
		return
	}
	log.Printf("LogUIManager not ready, console log: %s", message)
}

// logger is handed to the service layer; it may be called from any goroutine.
func (a *App) logger(message string) {
	log.Print(message)
	fyne.Do(func() { a.addLogMessage(message) })
}

// showImage displays path, or clears the canvas when path is empty.
func (a *App) showImage(path string) {
	if path == "" {
		a.UI.image.SetFile("")
		a.UI.MainWin.SetTitle("PoseShow")
	} else {
		a.UI.image.SetFile(path)
		a.UI.MainWin.SetTitle(fmt.Sprintf("PoseShow - %s", filepath.Base(path)))
	}
	a.updateStarIcon()
	a.updateStatusBar()
}

// updateStatusBar updates the text of the status bar.
func (a *App) updateStatusBar() {
	if a.UI.statusPathLabel == nil {
		return
	}
	statusText := "No images"
	if info, err := a.Service.CurrentInfo(); err == nil {
		statusText = info.String()
	}
	if a.Service.Navigator.Loading() {
		statusText += " | Loading..."
	}
	statusText += " | " + a.Service.Slideshow.State().String()
	a.UI.statusPathLabel.SetText(statusText)
}

func (a *App) setBanner(message string) {
	if a.UI.bannerLabel == nil {
		return
	}
	a.UI.bannerLabel.SetText(message)
	if message == "" {
		a.UI.bannerLabel.Hide()
	} else {
		a.UI.bannerLabel.Show()
	}
}

func (a *App) updatePlayIcon() {
	if a.UI.pauseAction == nil {
		return
	}
	if a.Service.Slideshow.State() == slideshow.Running {
		a.UI.pauseAction.SetIcon(theme.MediaPauseIcon())
	} else {
		a.UI.pauseAction.SetIcon(theme.MediaPlayIcon())
	}
	if a.UI.toolBar != nil {
		a.UI.toolBar.Refresh()
	}
}

func (a *App) updateStarIcon() {
	if a.UI.starAction == nil {
		return
	}
	if a.Service.IsCurrentStarred() {
		a.UI.starAction.SetIcon(theme.ConfirmIcon())
	} else {
		a.UI.starAction.SetIcon(theme.ContentAddIcon())
	}
	if a.UI.toolBar != nil {
		a.UI.toolBar.Refresh()
	}
}

// reportError logs err and shows it, except for the expected empty-sequence case.
func (a *App) reportError(action string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, navigator.ErrEmptySequence) || errors.Is(err, navigator.ErrNoHistory) {
		a.addLogMessage(fmt.Sprintf("%s: %v", action, err))
		return
	}
	a.addLogMessage(fmt.Sprintf("%s failed: %v", action, err))
	dialog.ShowError(fmt.Errorf("%s: %w", action, err), a.UI.MainWin)
}

// wireNotifications subscribes the UI to the core. Every callback can
// arrive on a scanner or timer goroutine, so each hops to the Fyne
// goroutine with fyne.Do.
func (a *App) wireNotifications() {
	nav := a.Service.Navigator
	nav.OnImageChanged(func(path string) {
		fyne.Do(func() { a.showImage(path) })
	})
	nav.OnSequenceChanged(func() {
		fyne.Do(func() {
			a.updateStatusBar()
			a.addLogMessage(fmt.Sprintf("Sequence now holds %d images", nav.Len()))
		})
	})

	show := a.Service.Slideshow
	show.OnChanged(func(message string) {
		fyne.Do(func() { a.setBanner(message) })
	})
	show.OnComplete(func() {
		fyne.Do(func() {
			a.setBanner("Slideshow complete")
			a.addLogMessage("Slideshow complete")
		})
	})
	show.OnStateChanged(func(slideshow.State) {
		fyne.Do(func() {
			a.updatePlayIcon()
			a.updateStatusBar()
		})
	})
}

// load opens paths in the background and reports the outcome on the UI.
func (a *App) load(paths []string) {
	go func() {
		err := a.Service.Load(a.ctx, paths)
		fyne.Do(func() {
			if err != nil {
				a.reportError("Opening images", err)
				return
			}
			a.updateStatusBar()
		})
	}()
}

func (a *App) closeApp() {
	a.cancel()
	if err := a.Service.Save(); err != nil {
		log.Printf("Error saving settings: %v", err)
	}
	if err := a.Service.Close(); err != nil {
		log.Printf("Error closing settings database: %v", err)
	}
}

// CreateApplication is the GUI entrypoint. paths are the files or
// directories named on the command line; with none the last session's
// directory is reopened.
func CreateApplication(paths []string) {
	a := app.NewWithID("com.github.poseshow")
	currentTheme := a.Settings().Theme()
	a.Settings().SetTheme(NewStudioTheme(currentTheme))

	ui := &App{app: a}
	ui.ctx, ui.cancel = context.WithCancel(context.Background())

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Error loading configuration, using defaults: %v", err)
		cfg = &config.Config{}
	}
	store, err := settings.NewStore("", ui.logger)
	if err != nil {
		log.Fatalf("Failed to initialize settings database: %v", err)
	}
	ui.Service, err = service.NewService(cfg, store, ui.logger)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to initialize slideshow: %v", err)
	}

	ui.UI.MainWin = a.NewWindow("PoseShow")
	ui.UI.MainWin.SetCloseIntercept(func() {
		ui.closeApp()
		ui.UI.MainWin.Close()
	})

	ui.UI.MainWin.SetContent(ui.buildMainUI())
	ui.wireNotifications()
	ui.updatePlayIcon()
	ui.load(paths)

	ui.UI.MainWin.Resize(fyne.NewSize(1200, 800))
	ui.UI.MainWin.CenterOnScreen()
	ui.UI.MainWin.ShowAndRun()
}
