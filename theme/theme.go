package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Key view
	WhiteKey rune // █ released white key
	BlackKey rune // ▀ released black key
	HeldKey  rune // █ held key, drawn in the Active color

	// Plot samples, lowest to highest
	Bars []rune
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			WhiteKey: '█',
			BlackKey: '▀',
			HeldKey:  '█',

			Bars: []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// PlotColors are the fixed per-plot colors (one per plot slot)
var PlotColors = [8]RGB{
	{0xFF, 0x3B, 0x30},
	{0xFF, 0x95, 0x00},
	{0xFF, 0xCC, 0x00},
	{0x4C, 0xD9, 0x64},
	{0x5A, 0xC8, 0xFA},
	{0x00, 0x7A, 0xFF},
	{0x58, 0x56, 0xD6},
	{0xFF, 0x2D, 0x55},
}

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// PlotColor returns the color of plot slot i
func (t *Theme) PlotColor(i int) lipgloss.Color {
	return rgbToLipgloss(PlotColors[i%len(PlotColors)])
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
