package config

import "encoding/json"

// Key bindings
const (
	KeyActionQuit         = "quit"
	KeyActionToggleHelp   = "toggleHelp"
	KeyActionNextPreset   = "nextPreset"
	KeyActionPrevPreset   = "prevPreset"
	KeyActionChoosePreset = "choosePreset"
	KeyActionFocusInput   = "focusInput"
	KeyActionExitInput    = "exitInput"
	KeyActionSendPrompt   = "sendPrompt"
)

type KeyMap struct {
	Quit         []string `mapstructure:"quit" json:"quit" jsonschema:"description=Exit the application"`
	ToggleHelp   []string `mapstructure:"toggleHelp" json:"toggleHelp" jsonschema:"description=Toggle help display"`
	NextPreset   []string `mapstructure:"nextPreset" json:"nextPreset" jsonschema:"description=Select the next preset"`
	PrevPreset   []string `mapstructure:"prevPreset" json:"prevPreset" jsonschema:"description=Select the previous preset"`
	ChoosePreset []string `mapstructure:"choosePreset" json:"choosePreset" jsonschema:"description=Ask for a recommendation with the selected preset"`
	FocusInput   []string `mapstructure:"focusInput" json:"focusInput" jsonschema:"description=Type a custom prompt"`
	ExitInput    []string `mapstructure:"exitInput" json:"exitInput" jsonschema:"description=Leave the prompt input"`
	SendPrompt   []string `mapstructure:"sendPrompt" json:"sendPrompt" jsonschema:"description=Send the custom prompt"`

	keyCache map[string][]string
}

// GetKeys returns the key bindings for an action
func (k *KeyMap) GetKeys(action string) []string {
	if k.keyCache == nil {
		k.keyCache = make(map[string][]string)
		jsonBytes, err := json.Marshal(k)
		if err != nil {
			return nil
		}
		if err := json.Unmarshal(jsonBytes, &k.keyCache); err != nil {
			return nil
		}
	}

	return k.keyCache[action]
}
