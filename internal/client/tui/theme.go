package tui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the style set for one color scheme. The active theme is a
// persisted per-device preference, toggled from any view.
type Theme struct {
	Name string

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Badge    lipgloss.Style
	Box      lipgloss.Style
	Help     lipgloss.Style
}

func DarkTheme() Theme {
	return Theme{
		Name:     "dark",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func LightTheme() Theme {
	return Theme{
		Name:     "light",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("90")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("97")),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("97")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("124")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("103")).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// ThemeByName resolves a persisted preference, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}
