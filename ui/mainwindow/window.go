// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image"
	"log"
	"path/filepath"

	"landmark-editor/internal/app"
	bgimage "landmark-editor/internal/image"
	"landmark-editor/internal/landmark"
	"landmark-editor/internal/render"
	"landmark-editor/internal/version"
	"landmark-editor/ui/canvas"
	"landmark-editor/ui/panels"
	"landmark-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Landmark Editor"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	style     render.Style
	canvas    *canvas.LandmarkCanvas
	sidePanel *panels.LandmarksPanel
	statusBar *widget.Label
	zoomLabel *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) (*MainWindow, error) {
	style, err := state.Config.Style()
	if err != nil {
		return nil, err
	}

	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		style:  style,
	}

	if label := p.String(prefs.KeyLastLabel); label != "" {
		state.SetLabel(label)
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1100, 750))
	return mw, nil
}

// renderOptions returns the renderer options for the current state.
func (mw *MainWindow) renderOptions() []render.Option {
	opts := []render.Option{
		render.WithStyle(mw.style),
		render.WithZoom(canvas.ClampZoom(mw.prefs.FloatWithFallback(prefs.KeyZoom, mw.state.Config.Canvas.Zoom))),
	}
	if mw.state.Backdrop != nil {
		opts = append(opts, render.WithBackdrop(mw.state.Backdrop.Image))
	}
	return opts
}

func (mw *MainWindow) extent() image.Point {
	w, h := mw.state.Extent()
	return image.Pt(w, h)
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewLandmarkCanvas(mw.state.Registry, mw.extent(), mw.renderOptions()...)
	mw.canvas.OnSecondaryClick(mw.onAddPoint)
	mw.canvas.OnChange(func() {
		mw.sidePanel.Refresh()
		mw.state.SetModified(true)
	})

	mw.sidePanel = panels.NewLandmarksPanel(mw.state, mw.canvas)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("")
	mw.updateZoomLabel()

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,                        // top
		nil,                            // bottom
		nil,                            // left
		nil,                            // right
		container.NewScroll(mw.canvas), // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.onZoomOut),
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("1:1", mw.onActualSize),
		mw.zoomLabel,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Landmarks...", mw.onOpenProject),
		fyne.NewMenuItem("Open Image...", mw.onImportImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Landmarks", mw.onSaveProject),
		fyne.NewMenuItem("Save Landmarks As...", mw.onSaveProjectAs),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application and window events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.canvas.Reset(mw.state.Registry, mw.extent(), mw.renderOptions()...)
			mw.state.SetModified(false)
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus(fmt.Sprintf("Loaded %d points from %s", mw.state.Registry.Len(), path))
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Saved " + path)
		}
	})

	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if b, ok := data.(*bgimage.Backdrop); ok {
			mw.canvas.SetBackdrop(b.Image)
			mw.prefs.SetString(prefs.KeyLastImage, b.Path)
			mw.updateStatus(fmt.Sprintf("Image loaded: %s (%dx%d)", filepath.Base(b.Path), b.Width(), b.Height()))
		}
	})

	mw.state.On(app.EventLabelChanged, func(data interface{}) {
		if label, ok := data.(string); ok {
			mw.prefs.SetString(prefs.KeyLastLabel, label)
			mw.updateStatus("Label: " + label)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		title := mw.Title()
		if modified, ok := data.(bool); ok && modified {
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		} else if len(title) > 2 && title[len(title)-2:] == " *" {
			mw.SetTitle(title[:len(title)-2])
		}
	})

	// A drag must not outlive the pointer grab.
	mw.app.Lifecycle().SetOnExitedForeground(mw.canvas.ForceRelease)
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			mw.canvas.ForceRelease()
		case fyne.KeyEqual:
			mw.onZoomIn()
		case fyne.KeyMinus:
			mw.onZoomOut()
		}
	})

	mw.SetOnClosed(mw.SavePreferencesIfChanged)
}

// SavePreferencesIfChanged writes the preferences file if anything changed.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if err := mw.prefs.SaveIfChanged(); err != nil {
		log.Printf("Prefs: save failed: %v", err)
	}
}

// RestoreLastImage loads the backdrop used in the previous session.
func (mw *MainWindow) RestoreLastImage() {
	path := mw.prefs.String(prefs.KeyLastImage)
	if path == "" || mw.state.Backdrop != nil {
		return
	}
	if err := mw.state.LoadImage(path); err != nil {
		log.Printf("Prefs: last image %s not loaded: %v", path, err)
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateZoomLabel() {
	mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", mw.canvas.GetZoom()*100))
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
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
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// Action handlers

func (mw *MainWindow) onAddPoint(x, y float64) {
	var added string
	err := mw.canvas.Update(func(_ *landmark.Registry) error {
		p, err := mw.state.AddPoint(x, y)
		if err == nil {
			added = p.Name()
		}
		return err
	})
	if err != nil {
		mw.updateStatus(err.Error())
		return
	}
	mw.updateStatus(fmt.Sprintf("Added %s at (%.1f, %.1f)", added, x, y))
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json", ".yaml", ".yml"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onImportImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(bgimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	mw.canvas.ForceRelease()
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		switch filepath.Ext(path) {
		case ".json", ".yaml", ".yml":
		default:
			path += ".json"
		}
		mw.saveLastDir(path)
		mw.canvas.ForceRelease()
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("landmarks.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.canvas.ZoomIn()
	mw.zoomChanged()
}

func (mw *MainWindow) onZoomOut() {
	mw.canvas.ZoomOut()
	mw.zoomChanged()
}

func (mw *MainWindow) onActualSize() {
	mw.canvas.SetZoom(1.0)
	mw.zoomChanged()
}

func (mw *MainWindow) zoomChanged() {
	mw.prefs.SetFloat(prefs.KeyZoom, mw.canvas.GetZoom())
	mw.updateZoomLabel()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Place and drag labeled landmarks on an image.\n"+
			"Right-click adds a point, drag moves it.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
