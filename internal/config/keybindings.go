// ABOUTME: Keybindings for the interactive catalog view with config overrides
// ABOUTME: Keys use bubbletea's KeyMsg.String() names ("tab", "ctrl+c", "d")

package config

import (
	"fmt"
	"slices"
)

// KeyAction represents an action that can be bound to keys
type KeyAction string

const (
	ActionUp       KeyAction = "up"
	ActionDown     KeyAction = "down"
	ActionNextPage KeyAction = "nextPage"
	ActionPrevPage KeyAction = "prevPage"
	ActionSearch   KeyAction = "search"
	ActionOpen     KeyAction = "open"
	ActionBack     KeyAction = "back"
	ActionDownload KeyAction = "download"
	ActionCancel   KeyAction = "cancel"
	ActionInstall  KeyAction = "install"
	ActionReload   KeyAction = "reload"
	ActionQuit     KeyAction = "quit"
)

// Keybindings maps actions to keys.
type Keybindings struct {
	Bindings map[KeyAction][]string
	byKey    map[string]KeyAction
}

// NewKeybindings creates a new Keybindings with default bindings
func NewKeybindings() *Keybindings {
	kb := &Keybindings{Bindings: make(map[KeyAction][]string)}
	kb.setDefaultBindings()
	kb.index()
	return kb
}

func (kb *Keybindings) setDefaultBindings() {
	kb.Bindings[ActionUp] = []string{"up", "k"}
	kb.Bindings[ActionDown] = []string{"down", "j"}
	kb.Bindings[ActionNextPage] = []string{"tab"}
	kb.Bindings[ActionPrevPage] = []string{"shift+tab"}
	kb.Bindings[ActionSearch] = []string{"/"}
	kb.Bindings[ActionOpen] = []string{"enter"}
	kb.Bindings[ActionBack] = []string{"esc"}
	kb.Bindings[ActionDownload] = []string{"d"}
	kb.Bindings[ActionCancel] = []string{"c"}
	kb.Bindings[ActionInstall] = []string{"i"}
	kb.Bindings[ActionReload] = []string{"r"}
	kb.Bindings[ActionQuit] = []string{"q", "ctrl+c"}
}

func (kb *Keybindings) index() {
	kb.byKey = make(map[string]KeyAction)
	// Sorted so a key bound twice resolves deterministically.
	actions := make([]KeyAction, 0, len(kb.Bindings))
	for a := range kb.Bindings {
		actions = append(actions, a)
	}
	slices.Sort(actions)
	for _, a := range actions {
		for _, k := range kb.Bindings[a] {
			if _, taken := kb.byKey[k]; !taken {
				kb.byKey[k] = a
			}
		}
	}
}

// Override replaces the keys of the actions named in raw. Unknown action
// names are an error.
func (kb *Keybindings) Override(raw map[string][]string) error {
	for name, keys := range raw {
		action := KeyAction(name)
		if _, ok := kb.Bindings[action]; !ok {
			return fmt.Errorf("ui.keys: unknown action %q", name)
		}
		kb.Bindings[action] = keys
	}
	kb.index()
	return nil
}

// GetBindings returns the bindings for an action
func (kb *Keybindings) GetBindings(action KeyAction) []string {
	if kb == nil {
		return nil
	}
	return kb.Bindings[action]
}

// Action returns the action bound to key.
func (kb *Keybindings) Action(key string) (KeyAction, bool) {
	if kb == nil {
		return "", false
	}
	a, ok := kb.byKey[key]
	return a, ok
}

// Keybindings returns the defaults with ui.keys applied.
func (c *Config) Keybindings() (*Keybindings, error) {
	kb := NewKeybindings()
	if err := kb.Override(c.UI.Keys); err != nil {
		return nil, err
	}
	return kb, nil
}
