// ABOUTME: Table-to-Bubble Tea bridge that turns lifecycle changes into re-render messages
// ABOUTME: Changes are coalesced so table writers never wait on the UI loop

package interactive

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
)

// ProgramSender is the interface for sending messages to Bubble Tea.
// Matches *tea.Program's Send method.
type ProgramSender interface {
	Send(msg tea.Msg)
}

// bridgeTable subscribes to table changes and sends tableChangedMsg to the
// program. Bursts collapse into one message: views read the table when
// they render, so only the fact of a change matters. The returned stop
// function unsubscribes and ends the sender goroutine.
func bridgeTable(program ProgramSender, table *lifecycle.Table) (stop func()) {
	dirty := make(chan struct{}, 1)
	done := make(chan struct{})

	unsubscribe := table.Subscribe(func(lifecycle.Change) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-dirty:
				program.Send(tableChangedMsg{})
			}
		}
	}()

	return sync.OnceFunc(func() {
		unsubscribe()
		close(done)
	})
}
