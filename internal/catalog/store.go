// ABOUTME: Catalog store holding the current snapshot and its memoized views
// ABOUTME: Replace swaps in a new generation; memos live on the snapshot they describe

package catalog

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/mauromedda/fossintosh-go/internal/log"
)

// maxMemoTerms bounds the per-snapshot search memo while the user types.
const maxMemoTerms = 256

type searchKey struct {
	name, description, category string
}

// snapshot is one immutable catalog generation plus lazily built views.
type snapshot struct {
	gen  uint64
	apps []App
	keys []searchKey
	byID map[string]int

	mu         sync.Mutex
	search     map[string][]App
	updates    map[string][]App
	categories []CategoryCount
	hasCats    bool
	updateN    int
}

func newSnapshot(gen uint64, apps []App) *snapshot {
	fold := cases.Fold()
	s := &snapshot{
		gen:     gen,
		apps:    make([]App, 0, len(apps)),
		byID:    make(map[string]int, len(apps)),
		search:  make(map[string][]App),
		updates: make(map[string][]App),
	}
	for _, a := range apps {
		if _, dup := s.byID[a.ID]; dup {
			log.Warn("catalog: duplicate app id %q ignored", a.ID)
			continue
		}
		s.byID[a.ID] = len(s.apps)
		s.apps = append(s.apps, a)
		s.keys = append(s.keys, searchKey{
			name:        fold.String(a.Name),
			description: fold.String(a.Description),
			category:    fold.String(a.Category),
		})
		if a.HasUpdate {
			s.updateN++
		}
	}
	return s
}

// Store holds the current catalog snapshot. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	snap *snapshot
}

// NewStore creates an empty store at generation 0.
func NewStore() *Store {
	return &Store{snap: newSnapshot(0, nil)}
}

func (s *Store) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace installs apps as the new snapshot and returns its generation.
// Duplicate ids keep the first occurrence.
func (s *Store) Replace(apps []App) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = newSnapshot(s.snap.gen+1, apps)
	return s.snap.gen
}

// Generation returns the number of Replace calls so far.
func (s *Store) Generation() uint64 {
	return s.current().gen
}

// Len returns the number of items in the current snapshot.
func (s *Store) Len() int {
	return len(s.current().apps)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (App, bool) {
	snap := s.current()
	i, ok := snap.byID[id]
	if !ok {
		return App{}, false
	}
	return snap.apps[i], true
}

// Has reports whether id is part of the current snapshot.
func (s *Store) Has(id string) bool {
	_, ok := s.current().byID[id]
	return ok
}

// All returns the items of the current snapshot in catalog order. The
// returned slice is shared and must not be modified.
func (s *Store) All() []App {
	return s.current().apps
}

// Search returns items whose name, description, or category contains term,
// ignoring case. A blank term yields no results.
func (s *Store) Search(term string) []App {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	snap := s.current()
	snap.mu.Lock()
	defer snap.mu.Unlock()

	if hit, ok := snap.search[term]; ok {
		return hit
	}
	res := snap.filter(cases.Fold().String(term), false)
	snap.remember(snap.search, term, res)
	return res
}

// Updates returns items flagged as having an update, further narrowed by
// term when it is not blank.
func (s *Store) Updates(term string) []App {
	snap := s.current()
	snap.mu.Lock()
	defer snap.mu.Unlock()

	if hit, ok := snap.updates[term]; ok {
		return hit
	}
	folded := ""
	if strings.TrimSpace(term) != "" {
		folded = cases.Fold().String(term)
	}
	res := snap.filter(folded, true)
	snap.remember(snap.updates, term, res)
	return res
}

// UpdateCount returns the number of items flagged as having an update.
func (s *Store) UpdateCount() int {
	return s.current().updateN
}

// Categories returns the category aggregate sorted by count descending then
// label ascending.
func (s *Store) Categories() []CategoryCount {
	snap := s.current()
	snap.mu.Lock()
	defer snap.mu.Unlock()

	if !snap.hasCats {
		snap.categories = aggregate(snap.apps)
		snap.hasCats = true
	}
	return snap.categories
}

// filter must be called with snap.mu held. An empty folded term matches
// every item.
func (snap *snapshot) filter(folded string, updatesOnly bool) []App {
	var out []App
	for i, a := range snap.apps {
		if updatesOnly && !a.HasUpdate {
			continue
		}
		if folded != "" && !snap.keys[i].contains(folded) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (snap *snapshot) remember(m map[string][]App, term string, res []App) {
	if len(m) >= maxMemoTerms {
		clear(m)
	}
	m[term] = res
}

func (k searchKey) contains(folded string) bool {
	return strings.Contains(k.name, folded) ||
		strings.Contains(k.description, folded) ||
		strings.Contains(k.category, folded)
}

func aggregate(apps []App) []CategoryCount {
	counts := make(map[string]int)
	for _, a := range apps {
		counts[a.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, CategoryCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return out
}
