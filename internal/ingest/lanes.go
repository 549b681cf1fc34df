// ABOUTME: Per-item serial lanes applying patches in arrival order
// ABOUTME: Each busy item gets one drain goroutine; idle items cost nothing

package ingest

import (
	"sync"

	"github.com/mauromedda/fossintosh-go/internal/lifecycle"
)

// lanes queues patches by item id. Patches for one id are applied in
// enqueue order; different ids drain independently.
type lanes struct {
	table *lifecycle.Table

	mu      sync.Mutex
	idle    *sync.Cond
	queues  map[string][]queued // present while a drainer runs
	pending int
}

// queued is a patch waiting in a lane. done, when set, is closed once the
// patch has been applied.
type queued struct {
	patch lifecycle.Patch
	done  chan struct{}
}

func newLanes(table *lifecycle.Table) *lanes {
	l := &lanes{
		table:  table,
		queues: make(map[string][]queued),
	}
	l.idle = sync.NewCond(&l.mu)
	return l
}

func (l *lanes) enqueue(id string, p lifecycle.Patch) {
	l.push(id, queued{patch: p})
}

// applyAfter queues p behind every patch already queued for id and waits
// until it has been applied.
func (l *lanes) applyAfter(id string, p lifecycle.Patch) {
	done := make(chan struct{})
	l.push(id, queued{patch: p, done: done})
	<-done
}

func (l *lanes) push(id string, item queued) {
	l.mu.Lock()
	q, running := l.queues[id]
	l.queues[id] = append(q, item)
	l.pending++
	l.mu.Unlock()

	if !running {
		go l.drain(id)
	}
}

func (l *lanes) drain(id string) {
	for {
		l.mu.Lock()
		q := l.queues[id]
		if len(q) == 0 {
			delete(l.queues, id)
			l.mu.Unlock()
			return
		}
		item := q[0]
		q[0] = queued{}
		l.queues[id] = q[1:]
		l.mu.Unlock()

		l.table.Apply(id, item.patch)
		if item.done != nil {
			close(item.done)
		}

		l.mu.Lock()
		l.pending--
		if l.pending == 0 {
			l.idle.Broadcast()
		}
		l.mu.Unlock()
	}
}

// wait blocks until every enqueued patch has been applied.
func (l *lanes) wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.pending > 0 {
		l.idle.Wait()
	}
}
