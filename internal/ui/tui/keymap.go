package tui

import (
	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/keymap"
)

// GetKeyMap returns all relevant keybindings for the current state
func (m Model) GetKeyMap() keymap.KeyMap {
	keyMap := keymap.NewKeyMap(m.keyMap)

	switch m.mode {
	case keymap.NormalMode:
		keyMap.AddAction(keymap.SystemGroup, config.KeyActionQuit, "quit")
		keyMap.AddAction(keymap.SystemGroup, config.KeyActionToggleHelp, "toggle help")
		keyMap.AddAction(keymap.NavigationGroup, config.KeyActionPrevPreset, "previous preset")
		keyMap.AddAction(keymap.NavigationGroup, config.KeyActionNextPreset, "next preset")
		keyMap.AddAction(keymap.ActionGroup, config.KeyActionChoosePreset, "go")
		keyMap.AddAction(keymap.ActionGroup, config.KeyActionFocusInput, "custom prompt")
	case keymap.InputMode:
		keyMap.AddAction(keymap.SystemGroup, config.KeyActionExitInput, "exit input mode")
		keyMap.AddAction(keymap.ActionGroup, config.KeyActionSendPrompt, "send prompt")
	}

	return keyMap
}
