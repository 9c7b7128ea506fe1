/*
Package groups remembers recently used participant groups.

PURPOSE:
  Typing the same names for every bill gets old. The splash screen offers
  the last few groups as one-click prefills, so the cache only needs to
  hold a handful of entries and answer "who did I split with recently?".

KEY TYPES:
  Group:  An ordered participant name list plus when it was last used
  Store:  Persistence interface (Save / Recent / Close)
  Memory: Mutex-guarded in-memory Store for tests and ephemeral runs

CACHE CONTRACT:
  - Save dedupes on the exact name list: saving an existing group
    refreshes its recency instead of inserting a duplicate.
  - At most MaxRecent groups are kept; the oldest is evicted.
  - Recent returns newest first.

SEE ALSO:
  - store/sqlite/sqlite.go: SQLite-backed Store for the serve command
*/
package groups

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MaxRecent caps how many groups a Store retains.
const MaxRecent = 3

// Group is an ordered participant name list with its last-used time.
// Order matters: "Alice,Bob" and "Bob,Alice" are distinct groups because
// abbreviation resolution scans participants in canonical order.
type Group struct {
	Names     []string
	CreatedAt time.Time
}

// Key returns the canonical identity of the group, the names joined by
// comma. Names come from comma-separated input so they never contain one.
func (g Group) Key() string {
	return strings.Join(g.Names, ",")
}

// Store persists recent groups.
type Store interface {
	// Save records names as the most recent group. Saving a name list that
	// is already cached refreshes its recency. Lists with fewer than two
	// names are ignored. Keeps at most MaxRecent groups.
	Save(ctx context.Context, names []string) error

	// Recent returns up to limit groups, newest first.
	// limit <= 0 returns everything cached.
	Recent(ctx context.Context, limit int) ([]Group, error)

	// Close releases underlying resources.
	Close() error
}

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory Store. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	groups []Group // oldest first; eviction drops index 0
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, names []string) error {
	if len(names) < 2 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	g := Group{Names: append([]string(nil), names...), CreatedAt: time.Now()}

	// Refresh recency if this exact list is already cached.
	for i, existing := range m.groups {
		if existing.Key() == g.Key() {
			m.groups = append(m.groups[:i], m.groups[i+1:]...)
			break
		}
	}

	m.groups = append(m.groups, g)
	if len(m.groups) > MaxRecent {
		m.groups = m.groups[len(m.groups)-MaxRecent:]
	}
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.groups)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]Group, 0, n)
	for i := len(m.groups) - 1; i >= len(m.groups)-n; i-- {
		g := m.groups[i]
		result = append(result, Group{
			Names:     append([]string(nil), g.Names...),
			CreatedAt: g.CreatedAt,
		})
	}
	return result, nil
}

func (m *Memory) Close() error {
	return nil
}
