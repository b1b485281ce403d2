package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/theme"
)

// InputSubmitMsg is emitted when the input is submitted
type InputSubmitMsg struct {
	Value string
}

// Model represents a text input component
type Model struct {
	textInput textinput.Model
	theme     *theme.Theme
	width     int
}

// New creates a new, blurred input model
func New(thm *theme.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Where would you like to go?"
	ti.CharLimit = 500
	ti.Width = 80

	return Model{
		textInput: ti,
		theme:     thm,
		width:     80,
	}
}

// SetWidth sets the width of the input
func (m *Model) SetWidth(width int) {
	m.width = width
	m.textInput.Width = width - 4 // Account for padding and borders
}

func (m *Model) Focus() tea.Cmd {
	return m.textInput.Focus()
}

func (m *Model) Blur() {
	m.textInput.Blur()
}

func (m Model) Focused() bool {
	return m.textInput.Focused()
}

// Value returns the current input value
func (m Model) Value() string {
	return m.textInput.Value()
}

// SetValue sets the input value
func (m *Model) SetValue(value string) {
	m.textInput.SetValue(value)
}

// Submit clears the input and emits its value. Blank input is ignored.
func (m *Model) Submit() tea.Cmd {
	value := strings.TrimSpace(m.textInput.Value())
	if value == "" {
		return nil
	}
	m.textInput.Reset()
	return func() tea.Msg {
		return InputSubmitMsg{Value: value}
	}
}

// Update handles input updates
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.textInput.Focused() {
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the input
func (m Model) View() string {
	style := m.theme.InputStyle.Width(m.width)
	if m.textInput.Focused() {
		style = style.BorderForeground(m.theme.Primary)
	}
	return style.Render(m.textInput.View())
}
