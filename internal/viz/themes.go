package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view. Canvas is the colour of the drawn bodies.
type Theme struct {
	Name     string
	Title    lipgloss.Color
	TitleEnd lipgloss.Color
	Canvas   lipgloss.Color
	Graph    lipgloss.Color
	Label    lipgloss.Color
	Value    lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:     "neon",
		Title:    lipgloss.Color("#ff00ff"),
		TitleEnd: lipgloss.Color("#00ffff"),
		Canvas:   lipgloss.Color("#00ffff"),
		Graph:    lipgloss.Color("#00ff88"),
		Label:    lipgloss.Color("#888899"),
		Value:    lipgloss.Color("#ffffff"),
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		Title:    lipgloss.Color("#00ff00"),
		TitleEnd: lipgloss.Color("#88ff88"),
		Canvas:   lipgloss.Color("#00cc00"),
		Graph:    lipgloss.Color("#88ff88"),
		Label:    lipgloss.Color("#005500"),
		Value:    lipgloss.Color("#00ff00"),
	}

	ThemeBlueprint = Theme{
		Name:     "blueprint",
		Title:    lipgloss.Color("#e0f0ff"),
		TitleEnd: lipgloss.Color("#00a8cc"),
		Canvas:   lipgloss.Color("#e0f0ff"),
		Graph:    lipgloss.Color("#ffd700"),
		Label:    lipgloss.Color("#4488aa"),
		Value:    lipgloss.Color("#e0f0ff"),
	}

	CurrentTheme = ThemeNeon

	Themes = []Theme{ThemeNeon, ThemePhosphor, ThemeBlueprint}
)

// GetTheme returns a theme by name, or the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeNeon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
