// Package history keeps the per-session list of recent search queries.
package history

// DefaultCapacity is the number of distinct queries a log retains.
const DefaultCapacity = 10

// RecentQueryLog is a bounded, duplicate-free list of queries, most recent first.
//
// A log belongs to exactly one session and is not safe for concurrent use.
type RecentQueryLog struct {
	capacity int
	entries  []string
}

// NewRecentQueryLog returns an empty log. A non-positive capacity means DefaultCapacity.
func NewRecentQueryLog(capacity int) *RecentQueryLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RecentQueryLog{
		capacity: capacity,
		entries:  make([]string, 0, capacity),
	}
}

// RestoreRecentQueryLog rebuilds a log from a most-recent-first snapshot.
// Entries are replayed through Record, so duplicates and overflow in the
// snapshot are dropped the same way live recording would drop them.
func RestoreRecentQueryLog(capacity int, snapshot []string) *RecentQueryLog {
	l := NewRecentQueryLog(capacity)
	for i := len(snapshot) - 1; i >= 0; i-- {
		if snapshot[i] == "" {
			continue
		}
		l.Record(snapshot[i])
	}
	return l
}

// Record moves query to the front, removing an earlier occurrence and
// truncating the log to its capacity. Callers must not pass an empty query.
func (l *RecentQueryLog) Record(query string) {
	if l.capacity <= 0 {
		l.capacity = DefaultCapacity
	}

	for i, q := range l.entries {
		if q == query {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			break
		}
	}

	l.entries = append(l.entries, "")
	copy(l.entries[1:], l.entries)
	l.entries[0] = query

	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// Clear drops every entry.
func (l *RecentQueryLog) Clear() {
	l.entries = l.entries[:0]
}

// List returns a copy of the entries, most recent first.
func (l *RecentQueryLog) List() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *RecentQueryLog) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of entries kept.
func (l *RecentQueryLog) Capacity() int {
	if l.capacity <= 0 {
		return DefaultCapacity
	}
	return l.capacity
}
