package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines a color scheme for the heatmap view
type Theme struct {
	Name          string
	PrimaryAccent string    // Title, cursor
	ValueText     string    // Stat values
	LabelText     string    // Labels, axis, help text
	Border        string    // Stats box border
	Levels        [5]string // Cell colors for activity levels 0-4
}

// Available themes
var Themes = map[string]Theme{
	"default": {
		Name:          "Default",
		PrimaryAccent: "#C73B3C",
		ValueText:     "#5fafaf",
		LabelText:     "#6c6c6c",
		Border:        "#5f87d7",
		Levels:        [5]string{"#2d333b", "#0e4429", "#006d32", "#26a641", "#39d353"},
	},
	"gruvbox": {
		Name:          "Gruvbox",
		PrimaryAccent: "#d65d0e",
		ValueText:     "#98971a",
		LabelText:     "#928374",
		Border:        "#458588",
		Levels:        [5]string{"#3c3836", "#79740e", "#98971a", "#b8bb26", "#d5c4a1"},
	},
	"tokyonight": {
		Name:          "Tokyo Night",
		PrimaryAccent: "#7aa2f7",
		ValueText:     "#9ece6a",
		LabelText:     "#565f89",
		Border:        "#7dcfff",
		Levels:        [5]string{"#292e42", "#3d59a1", "#7aa2f7", "#7dcfff", "#c0caf5"},
	},
	"catppuccin": {
		Name:          "Catppuccin",
		PrimaryAccent: "#cba6f7",
		ValueText:     "#a6e3a1",
		LabelText:     "#6c7086",
		Border:        "#89b4fa",
		Levels:        [5]string{"#313244", "#45475a", "#94e2d5", "#a6e3a1", "#f9e2af"},
	},
}

// ThemeNames returns the list of available theme names in cycle order
var ThemeNames = []string{"default", "gruvbox", "tokyonight", "catppuccin"}

// CurrentTheme holds the active theme
var CurrentTheme = Themes["default"]

var (
	titleStyle     lipgloss.Style
	statLabelStyle lipgloss.Style
	statValueStyle lipgloss.Style
	boxStyle       lipgloss.Style
	cursorStyle    lipgloss.Style
	helpStyle      lipgloss.Style
	levelStyles    [5]lipgloss.Style
)

// SetTheme updates the current theme and regenerates all styles.
// Unknown names are ignored.
func SetTheme(name string) {
	if theme, ok := Themes[name]; ok {
		CurrentTheme = theme
		regenerateStyles()
	}
}

// regenerateStyles updates all lipgloss styles with current theme colors
func regenerateStyles() {
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.PrimaryAccent)).
		MarginBottom(1)

	statLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.LabelText))

	statValueStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(CurrentTheme.ValueText))

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(CurrentTheme.Border)).
		Padding(0, 2)

	cursorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.PrimaryAccent)).
		Bold(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(CurrentTheme.LabelText)).
		MarginTop(1)

	for i, c := range CurrentTheme.Levels {
		levelStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
}

// Initialize styles with default theme
func init() {
	regenerateStyles()
}
