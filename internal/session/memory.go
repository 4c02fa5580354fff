package session

import (
	"context"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
)

// MemoryStore keeps sessions in process memory. Sessions idle for longer
// than the TTL are treated as gone and removed by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]snapshot
	now      func() time.Time
}

// NewMemoryStore returns an empty store. A non-positive ttl keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]snapshot),
		now:      gutils.Clock.GetUTCNow,
	}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id string) (*State, error) {
	if !ValidID(id) {
		return NewState(NewID()), nil
	}

	s.mu.Lock()
	snap, ok := s.sessions[id]
	if ok && s.expired(snap) {
		delete(s.sessions, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return NewState(NewID()), nil
	}
	return snap.state(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, st *State) error {
	if st == nil || st.ID == "" {
		return errors.New("session state without id")
	}

	st.UpdatedAt = s.now()
	snap := newSnapshot(st)

	s.mu.Lock()
	s.sessions[st.ID] = snap
	s.mu.Unlock()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, snap := range s.sessions {
		if s.expired(snap) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

func (s *MemoryStore) expired(snap snapshot) bool {
	return s.ttl > 0 && s.now().Sub(snap.UpdatedAt) > s.ttl
}
