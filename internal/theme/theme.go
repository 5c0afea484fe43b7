package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the base colours every style is derived from. Fading a level
// blends each colour toward Backdrop.
type Palette struct {
	Text     string
	Bright   string
	Muted    string
	Accent   string
	Danger   string
	Surface  string
	Backdrop string
}

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Border       *lipgloss.Style
	Title        *lipgloss.Style
	Item         *lipgloss.Style
	Container    *lipgloss.Style
	HoverItem    *lipgloss.Style
	KeyboardItem *lipgloss.Style
	ContextItem  *lipgloss.Style
	Placeholder  *lipgloss.Style
	Loading      *lipgloss.Style
	Tray         *lipgloss.Style
	TrayOpen     *lipgloss.Style
	Error        *lipgloss.Style
	Info         *lipgloss.Style
	Filter       *lipgloss.Style
	FilterPrompt *lipgloss.Style
	ScrollMarker *lipgloss.Style
	BorderColor  lipgloss.Color
	palette      Palette
}

var defaultPalette = Palette{
	Text:     "#b2b2b2",
	Bright:   "#eeeeee",
	Muted:    "#626262",
	Accent:   "#0087ff",
	Danger:   "#ff0000",
	Surface:  "#444444",
	Backdrop: "#1c1c1c",
}

var defaultStyles = build(defaultPalette)

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Faded returns the style set with every colour blended toward the backdrop.
// An opacity of 1 yields the default styles.
func Faded(opacity float64) *Styles {
	if opacity >= 1 {
		return Default()
	}
	if opacity < 0 {
		opacity = 0
	}
	p := defaultPalette
	faded := Palette{
		Text:     Blend(p.Text, p.Backdrop, opacity),
		Bright:   Blend(p.Bright, p.Backdrop, opacity),
		Muted:    Blend(p.Muted, p.Backdrop, opacity),
		Accent:   Blend(p.Accent, p.Backdrop, opacity),
		Danger:   Blend(p.Danger, p.Backdrop, opacity),
		Surface:  Blend(p.Surface, p.Backdrop, opacity),
		Backdrop: p.Backdrop,
	}
	s := build(faded)
	return &s
}

// Blend mixes fg into backdrop in Lab space. Invalid hex input returns fg
// unchanged.
func Blend(fg, backdrop string, opacity float64) string {
	c, err := colorful.Hex(fg)
	if err != nil {
		return fg
	}
	b, err := colorful.Hex(backdrop)
	if err != nil {
		return fg
	}
	switch {
	case opacity <= 0:
		return b.Hex()
	case opacity >= 1:
		return c.Hex()
	}
	return b.BlendLab(c, opacity).Clamped().Hex()
}

// Palette returns the colours the style set was built from.
func (s *Styles) Palette() Palette {
	return s.palette
}

func build(p Palette) Styles {
	return Styles{
		Border: ptr(
			lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.Muted)),
		),
		Title: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Bold(true),
		),
		Item: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		),
		Container: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		),
		HoverItem: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Bright)).Background(lipgloss.Color(p.Surface)),
		),
		KeyboardItem: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Bright)).Background(lipgloss.Color(p.Surface)).Bold(true),
		),
		ContextItem: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Background(lipgloss.Color(p.Surface)).Underline(true),
		),
		Placeholder: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Italic(true),
		),
		Loading: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Italic(true),
		),
		Tray: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		),
		TrayOpen: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Bright)).Background(lipgloss.Color(p.Accent)).Bold(true),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Danger)).Bold(true),
		),
		Info: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		),
		Filter: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		),
		FilterPrompt: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		),
		ScrollMarker: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		),
		BorderColor: lipgloss.Color(p.Muted),
		palette:     p,
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
