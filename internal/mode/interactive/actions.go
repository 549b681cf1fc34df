// ABOUTME: Per-item action buttons derived from the lifecycle entry
// ABOUTME: Downloading offers cancel; downloaded offers install or re-download; otherwise download

package interactive

import (
	"strings"

	"github.com/mauromedda/fossintosh-go/internal/config"
	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
)

// button is one action offered for an item.
type button struct {
	Action   config.KeyAction
	Label    string
	Disabled bool
}

// buttons returns the actions available for an entry, in display order.
func buttons(e lifecycle.Entry) []button {
	switch {
	case e.Downloading:
		return []button{{Action: config.ActionCancel, Label: "Cancel"}}
	case e.Downloaded && !e.Installing:
		return []button{
			{Action: config.ActionInstall, Label: "Install"},
			{Action: config.ActionDownload, Label: "Re-download"},
		}
	case e.Installing:
		return []button{{Action: config.ActionDownload, Label: "Installing...", Disabled: true}}
	default:
		return []button{{Action: config.ActionDownload, Label: "Download"}}
	}
}

// allowed reports whether action is an enabled button for e.
func allowed(e lifecycle.Entry, action config.KeyAction) bool {
	for _, b := range buttons(e) {
		if b.Action == action {
			return !b.Disabled
		}
	}
	return false
}

// buttonBar renders the buttons with their first key binding.
func buttonBar(e lifecycle.Entry, keys *config.Keybindings) string {
	s := Styles()
	parts := make([]string, 0, 2)
	for _, b := range buttons(e) {
		if b.Disabled {
			parts = append(parts, s.Muted.Render(b.Label))
			continue
		}
		label := "[" + firstKey(keys, b.Action) + "] " + b.Label
		switch b.Action {
		case config.ActionCancel:
			parts = append(parts, s.Error.Render(label))
		case config.ActionInstall:
			parts = append(parts, s.Success.Render(label))
		default:
			parts = append(parts, s.Accent.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func firstKey(keys *config.Keybindings, action config.KeyAction) string {
	if b := keys.GetBindings(action); len(b) > 0 {
		return b[0]
	}
	return "?"
}
