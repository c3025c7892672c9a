// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"strings"

	"landmark-editor/internal/app"
	"landmark-editor/internal/landmark"
	"landmark-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LandmarksPanel shows the label selector and the list of placed points.
type LandmarksPanel struct {
	state     *app.State
	canvas    *canvas.LandmarkCanvas
	container fyne.CanvasObject

	labelSelect *widget.Select
	labelEntry  *widget.Entry
	summary     *widget.Label
	list        *widget.List

	reg  *landmark.Registry
	rows []landmark.Landmark
}

// NewLandmarksPanel creates a new landmarks panel.
func NewLandmarksPanel(state *app.State, cvs *canvas.LandmarkCanvas) *LandmarksPanel {
	lp := &LandmarksPanel{
		state:  state,
		canvas: cvs,
	}

	lp.summary = widget.NewLabel("")

	lp.labelSelect = widget.NewSelect(nil, func(label string) {
		if label != "" && label != lp.state.Label() {
			lp.state.SetLabel(label)
		}
	})

	lp.labelEntry = widget.NewEntry()
	lp.labelEntry.SetPlaceHolder("new label")
	addLabelBtn := widget.NewButton("Add", lp.onAddLabel)
	lp.labelEntry.OnSubmitted = func(string) { lp.onAddLabel() }

	lp.list = widget.NewList(
		func() int { return len(lp.rows) },
		func() fyne.CanvasObject { return widget.NewLabel("head[00] (0000.0, 0000.0)") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(lp.rows) {
				obj.(*widget.Label).SetText(formatRow(lp.rows[id], lp.reg))
			}
		},
	)

	lp.container = container.NewBorder(
		container.NewVBox(
			widget.NewLabel("Label for new points:"),
			lp.labelSelect,
			container.NewBorder(nil, nil, nil, addLabelBtn, lp.labelEntry),
			widget.NewLabel("Right-click the canvas to add a point."),
			widget.NewSeparator(),
			lp.summary,
		),
		nil, nil, nil,
		lp.list,
	)

	lp.Refresh()
	return lp
}

// Container returns the panel container.
func (lp *LandmarksPanel) Container() fyne.CanvasObject {
	return lp.container
}

// Refresh reloads the label options and the point list from the registry.
func (lp *LandmarksPanel) Refresh() {
	reg := lp.canvas.Registry()
	lp.reg = reg
	lp.rows = reg.Landmarks()

	options := labelOptions(lp.state.Config.Labels.Available, reg.Labels(), lp.state.Label())
	lp.labelSelect.Options = options
	lp.labelSelect.SetSelected(lp.state.Label())
	lp.labelSelect.Refresh()

	lp.summary.SetText(fmt.Sprintf("%d points in %d chains", reg.Len(), len(reg.Labels())))
	lp.list.Refresh()
}

func (lp *LandmarksPanel) onAddLabel() {
	label := strings.TrimSpace(lp.labelEntry.Text)
	if label == "" {
		return
	}
	lp.labelEntry.SetText("")
	lp.state.SetLabel(label)
	lp.Refresh()
}

// labelOptions merges the configured labels, labels already in use and the
// current label, keeping first-seen order.
func labelOptions(configured, inUse []string, current string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, label := range append(append(append([]string(nil), configured...), inUse...), current) {
		if label != "" && !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

func formatRow(l landmark.Landmark, reg *landmark.Registry) string {
	name := fmt.Sprintf("%s[%d]", l.Label, l.Index)
	if reg != nil && reg.IsSingleton(l.Label) {
		name = l.Label
	}
	return fmt.Sprintf("%s (%.1f, %.1f)", name, l.X, l.Y)
}
