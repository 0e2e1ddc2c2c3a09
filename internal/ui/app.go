package ui

import (
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Akaiko1/ui2py/internal/config"
	"github.com/Akaiko1/ui2py/internal/converter"
)

const (
	// UI Constants
	windowWidth  = 465
	windowHeight = 285

	defaultOutputName = "ui_main" + outputExt

	// Messages
	msgDropSource = "please drop a .ui file"
	msgStatusIdle = "Select a UI file and a destination."
	msgStatusOK   = "Ready to convert."
)

// App is the main window: a UI file picker, an output folder picker with a
// file name, and a convert button.
type App struct {
	// Core components
	app    fyne.App
	window fyne.Window
	config *config.Config
	log    Logger

	controller *Controller

	// UI components
	sourceEntry *widget.Entry
	destEntry   *widget.Entry
	nameEntry   *widget.Entry

	// Folder chosen for the output file; joined with nameEntry.
	destDir string
	convertBtn  *widget.Button
	statusLabel *widget.Label
}

// NewApp creates the window described by cfg. Relative icon paths are
// resolved against root.
func NewApp(cfg *config.Config, log Logger, root string) *App {
	return newApp(app.New(), cfg, log, root)
}

func newApp(fyneApp fyne.App, cfg *config.Config, log Logger, root string) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	window := fyneApp.NewWindow(cfg.WindowTitle)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetFixedSize(true)

	if icon := loadIcon(cfg.IconFile(root), log); icon != nil {
		window.SetIcon(icon)
	}

	a := &App{
		app:         fyneApp,
		window:      window,
		config:      cfg,
		log:         log,
		statusLabel: widget.NewLabel(msgStatusIdle),
	}
	a.controller = NewController(converter.NewFileHandler(cfg.Generator, fyneApp), log, a)
	a.window.SetContent(a.createMainContent())
	a.enableDragDrop()
	return a
}

// Run shows the window centered and blocks in the event loop.
func (a *App) Run() {
	a.window.CenterOnScreen()
	a.window.ShowAndRun()
}

// loadIcon returns nil and logs when the icon file is missing or unreadable.
func loadIcon(path string, log Logger) fyne.Resource {
	if _, err := os.Stat(path); err != nil {
		log.Error(fmt.Sprintf("Icon file not found: %s", path))
		return nil
	}
	res, err := fyne.LoadResourceFromPath(path)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to load icon: %s", path), err.Error())
		return nil
	}
	return res
}

// createMainContent creates the main UI content.
func (a *App) createMainContent() fyne.CanvasObject {
	a.sourceEntry = widget.NewEntry()
	a.sourceEntry.SetPlaceHolder("UI file (*.ui)")
	a.sourceEntry.Disable()

	a.destEntry = widget.NewEntry()
	a.destEntry.SetPlaceHolder("Python file (*.py)")
	a.destEntry.Disable()

	a.nameEntry = widget.NewEntry()
	a.nameEntry.SetText(defaultOutputName)
	a.nameEntry.OnChanged = func(string) { a.updateDestination() }

	sourceBtn := widget.NewButtonWithIcon("Select UI File", theme.FolderOpenIcon(), a.handleSelectSource)
	destBtn := widget.NewButtonWithIcon("Output Folder", theme.FolderIcon(), a.handleSelectDestination)

	a.convertBtn = widget.NewButtonWithIcon("Convert", theme.MediaPlayIcon(), a.handleConvert)
	a.convertBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewLabel("Source"),
		container.NewBorder(nil, nil, nil, sourceBtn, a.sourceEntry),
		widget.NewLabel("Destination"),
		container.NewBorder(nil, nil, nil, destBtn, a.destEntry),
		container.NewBorder(nil, nil, widget.NewLabel("File name"), nil, a.nameEntry),
	)

	footer := container.NewVBox(a.convertBtn, a.statusLabel)
	return container.NewBorder(form, footer, nil, nil)
}

// handleSelectSource opens a picker for an existing UI file.
func (a *App) handleSelectSource() {
	openDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.controller.PickFailed("UI file", err)
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		a.setSource(reader.URI().Path())
	}, a.window)

	openDialog.SetFilter(storage.NewExtensionFileFilter([]string{sourceExt}))
	openDialog.Show()
}

// handleSelectDestination picks the output folder. The file itself is left
// untouched until the generator writes it.
func (a *App) handleSelectDestination() {
	folderDialog := dialog.NewFolderOpen(func(folder fyne.ListableURI, err error) {
		if err != nil {
			a.controller.PickFailed("Python file", err)
			return
		}
		if folder == nil {
			return // User cancelled
		}

		a.destDir = folder.Path()
		a.updateDestination()
	}, a.window)

	folderDialog.Show()
}

// updateDestination records the chosen folder joined with the file name.
func (a *App) updateDestination() {
	a.setDestination(OutputPath(a.destDir, a.nameEntry.Text))
}

func (a *App) setSource(path string) {
	if a.controller.SelectSource(path) {
		a.sourceEntry.SetText(path)
	}
	a.refreshStatus()
}

func (a *App) setDestination(path string) {
	if a.controller.SelectDestination(path) {
		a.destEntry.SetText(path)
	}
	a.refreshStatus()
}

// handleConvert blocks the event loop until the generator exits.
func (a *App) handleConvert() {
	a.convertBtn.Disable()
	defer a.convertBtn.Enable()

	if err := a.controller.Convert(); err == nil {
		a.statusLabel.SetText("Converted to " + a.controller.Destination())
		return
	}
	a.refreshStatus()
}

func (a *App) refreshStatus() {
	if a.controller.State() == StateReady {
		a.statusLabel.SetText(msgStatusOK)
		return
	}
	a.statusLabel.SetText(msgStatusIdle)
}

// ShowInfo shows an information dialog.
func (a *App) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, a.window)
}

// ShowWarning shows a dialog with a warning icon.
func (a *App) ShowWarning(title, message string) {
	content := container.NewHBox(widget.NewIcon(theme.WarningIcon()), widget.NewLabel(message))
	dialog.ShowCustom(title, "OK", content, a.window)
}

// ShowError shows an error dialog.
func (a *App) ShowError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.window)
}

// enableDragDrop lets a dropped .ui file become the source.
func (a *App) enableDragDrop() {
	a.window.SetOnDropped(func(position fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 {
			return
		}
		uri := uris[0] // Take first dropped item

		if uri.Scheme() != "file" {
			a.ShowError("Error", errors.New("invalid file path"))
			return
		}
		if !IsSourceFile(uri.Path()) {
			a.ShowError("Error", errors.New(msgDropSource))
			return
		}
		a.setSource(uri.Path())
	})
}
