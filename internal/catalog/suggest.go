// ABOUTME: Fuzzy "did you mean" suggestions for searches with no substring match
// ABOUTME: Ranks item names with sahilm/fuzzy over the current snapshot

package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// nameSource adapts a snapshot to fuzzy.Source.
type nameSource []App

func (n nameSource) String(i int) string { return n[i].Name }
func (n nameSource) Len() int            { return len(n) }

// Suggest returns up to limit item names ranked by fuzzy score, best first.
func (s *Store) Suggest(term string, limit int) []string {
	term = strings.TrimSpace(term)
	if term == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.FindFrom(term, nameSource(s.current().apps))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Str
	}
	return names
}
