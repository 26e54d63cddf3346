package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// studioTheme wraps a base theme for drawing sessions: the dark variant
// is always used so the reference image stands out, and padding is tight.
type studioTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*studioTheme)(nil)

func (t *studioTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, theme.VariantDark)
}

func (t *studioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 2
	case theme.SizeNameInnerPadding:
		return 4
	}
	return t.Theme.Size(name)
}

// NewStudioTheme returns base with the dark variant forced and reduced padding.
func NewStudioTheme(base fyne.Theme) fyne.Theme {
	if base == nil {
		base = theme.DefaultTheme()
	}
	return &studioTheme{Theme: base}
}
