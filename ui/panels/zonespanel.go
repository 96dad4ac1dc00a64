// Package panels provides the side panels of the main window.
package panels

import (
	"fmt"
	"strings"

	"zone-editor/internal/app"
	"zone-editor/internal/zone"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ZonesPanel lists zones and edits the selected zone's label and classes.
type ZonesPanel struct {
	session *app.Session
	zones   []zone.Zone

	list         *widget.List
	labelEntry   *widget.Entry
	classesEntry *widget.Entry
	pointsLabel  *widget.Label
	applyBtn     *widget.Button
	deleteBtn    *widget.Button
	content      fyne.CanvasObject

	syncing  bool
	onStatus func(string)
}

// NewZonesPanel creates the panel and subscribes it to session events.
func NewZonesPanel(s *app.Session, onStatus func(string)) *ZonesPanel {
	zp := &ZonesPanel{session: s, onStatus: onStatus}
	zp.buildUI()
	zp.refresh()

	s.On(app.EventZonesChanged, func(interface{}) { zp.refresh() })
	s.On(app.EventSelectionChanged, func(interface{}) { zp.refresh() })
	return zp
}

// Container returns the panel for embedding.
func (zp *ZonesPanel) Container() fyne.CanvasObject {
	return zp.content
}

func (zp *ZonesPanel) buildUI() {
	zp.list = widget.NewList(
		func() int { return len(zp.zones) },
		func() fyne.CanvasObject { return widget.NewLabel("template zone name") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(zp.zones) {
				return
			}
			z := zp.zones[id]
			text := fmt.Sprintf("%s (%s, %d pts)", z.Label, z.Kind, len(z.Points))
			if !z.Complete() {
				text += " !"
			}
			obj.(*widget.Label).SetText(text)
		},
	)
	zp.list.OnSelected = func(id widget.ListItemID) {
		if zp.syncing || id >= len(zp.zones) {
			return
		}
		if err := zp.session.Select(zp.zones[id].ID); err != nil {
			zp.status(err.Error())
		}
	}

	zp.labelEntry = widget.NewEntry()
	zp.labelEntry.SetPlaceHolder("Zone name")
	zp.classesEntry = widget.NewEntry()
	zp.classesEntry.SetPlaceHolder("car, person")
	zp.pointsLabel = widget.NewLabel("")
	zp.applyBtn = widget.NewButton("Apply", zp.onApply)
	zp.deleteBtn = widget.NewButton("Delete", func() {
		if err := zp.session.DeleteSelected(); err != nil {
			zp.status(err.Error())
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Name", zp.labelEntry),
		widget.NewFormItem("Classes", zp.classesEntry),
		widget.NewFormItem("Points", zp.pointsLabel),
	)
	zp.content = container.NewBorder(
		widget.NewLabel("Zones"),
		container.NewVBox(form, container.NewHBox(zp.applyBtn, zp.deleteBtn)),
		nil,
		nil,
		zp.list,
	)
}

func (zp *ZonesPanel) onApply() {
	id := zp.session.Selected()
	if id == "" {
		return
	}
	label := strings.TrimSpace(zp.labelEntry.Text)
	tags := strings.Split(zp.classesEntry.Text, ",")
	if err := zp.session.SetZoneMeta(id, label, tags); err != nil {
		zp.status(err.Error())
	}
}

// refresh reloads the list and the form from the session.
func (zp *ZonesPanel) refresh() {
	zp.zones = zp.session.Zones()
	selected := zp.session.Selected()

	zp.syncing = true
	defer func() { zp.syncing = false }()

	zp.list.Refresh()
	zp.list.UnselectAll()
	for i, z := range zp.zones {
		if z.ID != selected {
			continue
		}
		zp.list.Select(i)
		zp.labelEntry.SetText(z.Label)
		zp.classesEntry.SetText(strings.Join(z.ClassTags, ", "))
		zp.pointsLabel.SetText(fmt.Sprintf("%d", len(z.Points)))
		zp.applyBtn.Enable()
		zp.deleteBtn.Enable()
		return
	}

	zp.labelEntry.SetText("")
	zp.classesEntry.SetText("")
	zp.pointsLabel.SetText("")
	zp.applyBtn.Disable()
	zp.deleteBtn.Disable()
}

func (zp *ZonesPanel) status(text string) {
	if zp.onStatus != nil {
		zp.onStatus(text)
	}
}
