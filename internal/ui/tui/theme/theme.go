package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the semantic colors and styles for the application
type Theme struct {
	// Dark is true when the terminal has a dark background.
	Dark bool

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor

	// Styles
	DocStyle          lipgloss.Style
	InputStyle        lipgloss.Style
	ProseStyle        lipgloss.Style
	CaptionStyle      lipgloss.Style
	ErrorStyle        lipgloss.Style
	FooterStyle       lipgloss.Style
	TitleStyle        lipgloss.Style
	ButtonStyle       lipgloss.Style
	ActiveButtonStyle lipgloss.Style
	PanelStyle        lipgloss.Style
	LabelStyle        lipgloss.Style
}

// DefaultTheme creates the theme matching the terminal background.
func DefaultTheme() *Theme {
	return New(lipgloss.HasDarkBackground())
}

// New creates a theme for a dark or light terminal.
func New(dark bool) *Theme {
	primary := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	secondary := lipgloss.AdaptiveColor{Light: "#4B56FD", Dark: "#6C9BF5"}
	text := lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#FFFFFF"}
	subtle := lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4136"}
	success := lipgloss.AdaptiveColor{Light: "#00A000", Dark: "#2ECC40"}

	buttonText := lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FAFAFA"}
	if !dark {
		subtle = lipgloss.AdaptiveColor{Light: "#9A9A9A", Dark: "#383838"}
	}

	return &Theme{
		Dark:      dark,
		Primary:   primary,
		Secondary: secondary,
		Text:      text,
		Subtle:    subtle,
		Highlight: highlight,
		Error:     errorColor,
		Success:   success,

		DocStyle: lipgloss.NewStyle().Padding(1, 2),

		InputStyle: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(subtle).
			Padding(0, 1),

		ProseStyle: lipgloss.NewStyle().
			Foreground(text),

		CaptionStyle: lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true).
			PaddingLeft(1),

		ErrorStyle: lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			PaddingLeft(1),

		FooterStyle: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 2),

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(buttonText).
			Background(primary).
			Padding(0, 1),

		ButtonStyle: lipgloss.NewStyle().
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1),

		ActiveButtonStyle: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),

		PanelStyle: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(secondary).
			Padding(0, 1),

		LabelStyle: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
	}
}
