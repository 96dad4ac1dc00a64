package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"zone-editor/pkg/colorutil"
)

// ZoneEditorTheme tints the default theme with the zone amber.
type ZoneEditorTheme struct{}

var _ fyne.Theme = (*ZoneEditorTheme)(nil)

func (t *ZoneEditorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.Amber
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Amber, 0.5)
	case theme.ColorNameFocus:
		return colorutil.WithAlpha(colorutil.Amber, 0.6)
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ZoneEditorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ZoneEditorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ZoneEditorTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
