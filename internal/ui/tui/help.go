package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/keymap"
)

// ShortHelp returns keybindings for the mini help view
func (m Model) ShortHelp() []key.Binding {
	km := m.GetKeyMap()
	bindings := append([]key.Binding{}, km.Groups[keymap.ActionGroup]...)
	return append(bindings, km.Groups[keymap.SystemGroup]...)
}

// FullHelp returns keybindings organized by their groups
func (m Model) FullHelp() [][]key.Binding {
	keyMap := m.GetKeyMap()

	var result [][]key.Binding
	for _, groupID := range []int{keymap.SystemGroup, keymap.NavigationGroup, keymap.ActionGroup} {
		if bindings, exists := keyMap.Groups[groupID]; exists && len(bindings) > 0 {
			result = append(result, bindings)
		}
	}

	return result
}
