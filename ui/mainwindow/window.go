// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"zone-editor/internal/app"
	"zone-editor/internal/editor"
	"zone-editor/internal/frame"
	"zone-editor/internal/version"
	"zone-editor/internal/zone"
	"zone-editor/pkg/geometry"
	"zone-editor/ui/canvas"
	"zone-editor/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastFrame = "lastFrame"

	appTitle = "Zone Editor"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app        fyne.App
	session    *app.Session
	canvas     *canvas.ZoneCanvas
	zonesPanel *panels.ZonesPanel
	statusBar  *widget.Label
	kindSelect *widget.RadioGroup
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupShortcuts()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewZoneCanvas(mw.session)
	mw.canvas.OnError(func(err error) { mw.updateStatus(err.Error()) })

	mw.statusBar = widget.NewLabel("Open a reference frame to start")
	mw.zonesPanel = panels.NewZonesPanel(mw.session, mw.updateStatus)

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.canvas,          // center
	)

	split := container.NewHSplit(mw.zonesPanel.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)
	mw.SetContent(content)
}

// createToolbar creates the drawing-mode selector and edit buttons.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.kindSelect = widget.NewRadioGroup([]string{"Polygon", "Line"}, func(choice string) {
		if choice == "" {
			return
		}
		kind, err := zone.ParseKind(choice)
		if err != nil {
			return
		}
		if err := mw.session.SetKind(kind); err != nil {
			mw.updateStatus(err.Error())
		}
	})
	mw.kindSelect.Horizontal = true
	mw.kindSelect.SetSelected(titleCase(mw.session.Kind().String()))

	return container.NewHBox(
		widget.NewButton("Open Frame...", mw.onOpenFrame),
		widget.NewSeparator(),
		widget.NewLabel("Draw:"),
		mw.kindSelect,
		widget.NewSeparator(),
		widget.NewButton("Delete", mw.onDeleteSelected),
		widget.NewButton("Cancel", mw.session.Cancel),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Frame...", mw.onOpenFrame),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Zones...", mw.onOpenZones),
		fyne.NewMenuItem("Save Zones", mw.onSaveZones),
		fyne.NewMenuItem("Save Zones As...", mw.onSaveZonesAs),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Cancel Drawing", mw.session.Cancel),
		fyne.NewMenuItem("Delete Selected Zone", mw.onDeleteSelected),
		fyne.NewMenuItem("Deselect", func() { _ = mw.session.Select("") }),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventFrameLoaded, func(data interface{}) {
		if size, ok := data.(geometry.Size); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(mw.session.FramePath()))
			mw.updateStatus(fmt.Sprintf("Frame loaded: %.0fx%.0f", size.Width, size.Height))
		}
	})

	mw.session.On(app.EventFrameFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus("Frame failed to load: " + err.Error())
		}
	})

	mw.session.On(app.EventModified, func(data interface{}) {
		title := strings.TrimSuffix(mw.Title(), " *")
		if modified, ok := data.(bool); ok && modified {
			title += " *"
		}
		mw.SetTitle(title)
	})

	mw.session.On(app.EventZonesChanged, func(data interface{}) {
		if ev, ok := data.(editor.Event); ok && ev.Type == editor.EventZoneCreated {
			mw.updateStatus(fmt.Sprintf("Created %s zone with %d points", ev.Kind, len(ev.Points)))
		}
	})

	mw.session.On(app.EventConfigReloaded, func(interface{}) {
		mw.kindSelect.SetSelected(titleCase(mw.session.Kind().String()))
		mw.updateStatus("Configuration reloaded")
	})
}

// setupShortcuts binds Escape to cancel and Delete to remove the selection.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			mw.session.Cancel()
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.onDeleteSelected()
		}
	})
}

// LoadFrame loads a reference frame and remembers it for next time.
func (mw *MainWindow) LoadFrame(path string) {
	mw.updateStatus("Loading " + filepath.Base(path) + "...")
	if err := mw.session.LoadFrame(context.Background(), path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.app.Preferences().SetString(prefKeyLastFrame, path)
}

// RestoreLastFrame reloads the frame used in the previous run, if any.
func (mw *MainWindow) RestoreLastFrame() {
	if path := mw.app.Preferences().String(prefKeyLastFrame); path != "" {
		if err := mw.session.LoadFrame(context.Background(), path); err != nil {
			mw.updateStatus("Could not restore last frame: " + err.Error())
		}
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

func (mw *MainWindow) onOpenFrame() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.LoadFrame(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(frame.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenZones() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.session.LoadZones(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus(fmt.Sprintf("Loaded %d zones", len(mw.session.Zones())))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveZones() {
	if mw.session.ZonesPath() == "" {
		mw.onSaveZonesAs()
		return
	}
	if err := mw.session.SaveZones(""); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Zones saved")
}

func (mw *MainWindow) onSaveZonesAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		if err := mw.session.SaveZones(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Zones saved to " + path)
	}, mw.Window)
	fd.SetFileName("zones.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onDeleteSelected() {
	if err := mw.session.DeleteSelected(); err != nil {
		mw.updateStatus(err.Error())
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Draw and edit detection zones over a reference frame.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
