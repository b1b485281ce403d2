package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/isaacphi/mapsxplr/internal/config"
)

// AppMode represents the application's current input mode
type AppMode int

const (
	NormalMode AppMode = iota
	InputMode
)

// KeyMap represents a set of keybindings
type KeyMap struct {
	Groups map[int][]key.Binding

	config *config.KeyMap
}

// NewKeyMap creates a new empty keymap backed by the configured keys
func NewKeyMap(cfg *config.KeyMap) KeyMap {
	return KeyMap{
		Groups: make(map[int][]key.Binding),
		config: cfg,
	}
}

const (
	SystemGroup = iota
	NavigationGroup
	ActionGroup
)

// Binding builds a binding for a configured action
func Binding(cfg *config.KeyMap, action, help string) key.Binding {
	keys := cfg.GetKeys(action)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), help),
	)
}

// Add adds a key binding to the keymap
func (k *KeyMap) Add(group int, binding key.Binding) {
	k.Groups[group] = append(k.Groups[group], binding)
}

// AddAction adds the binding of a configured action to the keymap
func (k *KeyMap) AddAction(group int, action, help string) {
	k.Add(group, Binding(k.config, action, help))
}

// Merge combines two keymaps
func (k *KeyMap) Merge(other KeyMap) {
	for group, bindings := range other.Groups {
		for _, binding := range bindings {
			k.Add(group, binding)
		}
	}
}

// SetModeMsg is a message to change the application mode
type SetModeMsg struct {
	Mode AppMode
}
