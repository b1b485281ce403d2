package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/theme"
)

// Model represents the help component
type Model struct {
	help    help.Model
	keys    help.KeyMap
	theme   *theme.Theme
	width   int
	ShowAll bool
}

// New creates a new help model
func New(km help.KeyMap, thm *theme.Theme) Model {
	return Model{
		help:  help.New(),
		keys:  km,
		theme: thm,
		width: 80,
	}
}

// SetWidth sets the width of the help component
func (m *Model) SetWidth(width int) {
	m.width = width
	m.help.Width = width
}

// SetKeybindings sets the keybindings for the help component
func (m *Model) SetKeybindings(km help.KeyMap) {
	m.keys = km
}

// Toggle switches between the short and the full help
func (m *Model) Toggle() {
	m.ShowAll = !m.ShowAll
}

// Update handles updates to the help component
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
	}
	return m, nil
}

// View renders the help component
func (m Model) View() string {
	if m.keys == nil {
		return ""
	}
	m.help.ShowAll = m.ShowAll
	style := m.theme.FooterStyle.Width(m.width)
	return style.Render(m.help.View(m.keys))
}
