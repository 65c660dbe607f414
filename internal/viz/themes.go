package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:      "nebula",
		Primary:   lipgloss.Color("#c792ea"),
		Secondary: lipgloss.Color("#82aaff"),
		Accent:    lipgloss.Color("#ffcb6b"),
		Text:      lipgloss.Color("#eeffff"),
		Muted:     lipgloss.Color("#546e7a"),
		Warning:   lipgloss.Color("#f78c6c"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Warning:   lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
	}

	ThemeSolar = Theme{
		Name:      "solar",
		Primary:   lipgloss.Color("#ff9e3b"),
		Secondary: lipgloss.Color("#ffd166"),
		Accent:    lipgloss.Color("#ef476f"),
		Text:      lipgloss.Color("#fdf0d5"),
		Muted:     lipgloss.Color("#7a6a53"),
		Warning:   lipgloss.Color("#ef476f"),
	}
)

var themes = []Theme{ThemeNebula, ThemeRetro, ThemeMinimal, ThemeSolar}

// CurrentTheme is used by every view that renders.
var CurrentTheme = ThemeNebula

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// SetTheme switches to the named theme and reports whether it exists.
func SetTheme(name string) bool {
	for _, t := range themes {
		if t.Name == name {
			CurrentTheme = t
			return true
		}
	}
	return false
}

// NextTheme cycles to the theme after the current one.
func NextTheme() {
	for i, t := range themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = themes[(i+1)%len(themes)]
			return
		}
	}
	CurrentTheme = themes[0]
}
