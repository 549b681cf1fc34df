// ABOUTME: Message types exchanged between commands, the table bridge, and AppModel

package interactive

import (
	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/config"
)

// catalogLoadedMsg reports a finished catalog load or reload.
type catalogLoadedMsg struct {
	gen uint64
	err error
}

// curatedLoadedMsg carries the resolved discover sections.
type curatedLoadedMsg struct {
	sections []catalog.Section
	err      error
}

// tableChangedMsg asks for a re-render after lifecycle entries changed.
type tableChangedMsg struct{}

// commandDoneMsg reports the outcome of a gateway request. The table
// already holds any rejection.
type commandDoneMsg struct {
	id     string
	name   string
	action config.KeyAction
	err    error
}

// iconLoadedMsg carries a rendered icon.
type iconLoadedMsg struct {
	ref   string
	lines []string
	err   error
}
