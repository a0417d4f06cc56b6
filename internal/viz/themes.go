package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme for the live view.
type Theme struct {
	Name   string
	Header lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
	Chart  lipgloss.Color
	Warn   lipgloss.Color
	// Wireframe colours as hex, drawn straight onto the canvas.
	Cylinder string
	Sphere   string
	// Mono draws every particle in Value instead of its own colour.
	Mono bool
}

var (
	ThemeNight = Theme{
		Name:     "night",
		Header:   lipgloss.Color("#5fd7d7"),
		Label:    lipgloss.Color("#8a8a8a"),
		Value:    lipgloss.Color("#e4e4e4"),
		Muted:    lipgloss.Color("#585858"),
		Chart:    lipgloss.Color("#00d7af"),
		Warn:     lipgloss.Color("#ff5f5f"),
		Cylinder: "#9e9e9e",
		Sphere:   "#3a3a3a",
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		Header:   lipgloss.Color("#00ff00"),
		Label:    lipgloss.Color("#00aa00"),
		Value:    lipgloss.Color("#88ff88"),
		Muted:    lipgloss.Color("#005500"),
		Chart:    lipgloss.Color("#00ff00"),
		Warn:     lipgloss.Color("#ffff00"),
		Cylinder: "#00cc00",
		Sphere:   "#004400",
		Mono:     true,
	}

	ThemeEmber = Theme{
		Name:     "ember",
		Header:   lipgloss.Color("#ff8700"),
		Label:    lipgloss.Color("#af875f"),
		Value:    lipgloss.Color("#ffd7af"),
		Muted:    lipgloss.Color("#5f3a1f"),
		Chart:    lipgloss.Color("#ff5f00"),
		Warn:     lipgloss.Color("#ff0000"),
		Cylinder: "#d78700",
		Sphere:   "#5f3a1f",
	}

	Themes = []Theme{ThemeNight, ThemePhosphor, ThemeEmber}

	CurrentTheme = ThemeNight
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func SetTheme(name string) { CurrentTheme = GetTheme(name) }

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
