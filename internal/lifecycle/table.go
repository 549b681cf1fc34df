// ABOUTME: Authoritative keyed store of lifecycle entries with a single merge primitive
// ABOUTME: Apply is serialized by one mutex; changes fan out through an event bus

package lifecycle

import (
	"maps"
	"sync"

	"github.com/mauromedda/fossintosh-go/internal/eventbus"
)

// Change announces that the entry for ID was patched or pruned. Version
// increases by one per change across the whole table; subscribers re-read
// with Get.
type Change struct {
	ID      string
	Version uint64
}

// Table maps item ids to lifecycle entries.
type Table struct {
	mu      sync.RWMutex
	entries map[string]Entry
	version uint64

	changes *eventbus.Bus[Change]
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[string]Entry),
		changes: eventbus.New[Change](),
	}
}

// Get returns the entry for id, or the zero Entry. It never creates one.
func (t *Table) Get(id string) Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[id]
}

// Has reports whether an entry has been materialized for id.
func (t *Table) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[id]
	return ok
}

// Apply merges p into the entry for id, creating it from the default when
// absent, and returns the resulting entry. Subscribers are notified after
// the lock is released.
func (t *Table) Apply(id string, p Patch) Entry {
	t.mu.Lock()
	next := p.ApplyTo(t.entries[id])
	t.entries[id] = next
	t.version++
	change := Change{ID: id, Version: t.version}
	t.mu.Unlock()

	t.changes.Publish(change)
	return next
}

// Version returns the number of changes made so far.
func (t *Table) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Len returns the number of materialized entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Snapshot returns a copy of all materialized entries.
func (t *Table) Snapshot() map[string]Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.entries)
}

// Prune drops idle entries whose id keep rejects and returns how many were
// removed. Entries with a download or install in flight always survive.
// Each removal is announced as a Change after the lock is released.
func (t *Table) Prune(keep func(id string) bool) int {
	t.mu.Lock()
	var changes []Change
	for id, e := range t.entries {
		if e.Phase().IsActive() || keep(id) {
			continue
		}
		delete(t.entries, id)
		t.version++
		changes = append(changes, Change{ID: id, Version: t.version})
	}
	t.mu.Unlock()

	for _, c := range changes {
		t.changes.Publish(c)
	}
	return len(changes)
}

// Subscribe registers fn for change notifications and returns an
// unsubscribe function.
func (t *Table) Subscribe(fn func(Change)) func() {
	unsub, err := t.changes.Subscribe(fn)
	if err != nil {
		// The table never closes its bus.
		return func() {}
	}
	return unsub
}
