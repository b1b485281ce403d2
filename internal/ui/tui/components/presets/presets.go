package presets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/theme"
)

// Model is a row of preset buttons with one selected.
type Model struct {
	presets  []domain.Preset
	selected int
	theme    *theme.Theme
}

func New(presets []domain.Preset, thm *theme.Theme) Model {
	return Model{presets: presets, theme: thm}
}

// Next selects the following preset, wrapping around.
func (m *Model) Next() {
	if len(m.presets) > 0 {
		m.selected = (m.selected + 1) % len(m.presets)
	}
}

// Prev selects the preceding preset, wrapping around.
func (m *Model) Prev() {
	if len(m.presets) > 0 {
		m.selected = (m.selected - 1 + len(m.presets)) % len(m.presets)
	}
}

func (m Model) Selected() (domain.Preset, bool) {
	if len(m.presets) == 0 {
		return domain.Preset{}, false
	}
	return m.presets[m.selected], true
}

// View renders the buttons. The selected button is highlighted unless the
// row is inactive.
func (m Model) View(active bool) string {
	buttons := make([]string, 0, len(m.presets))
	for i, p := range m.presets {
		style := m.theme.ButtonStyle
		if active && i == m.selected {
			style = m.theme.ActiveButtonStyle
		}
		buttons = append(buttons, style.Render(p.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}
