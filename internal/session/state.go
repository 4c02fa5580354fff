// Package session holds per-session search state: the recent query log and
// the user's preferences. There is no process-wide state; every browser
// cookie or terminal gets its own State.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"github.com/google/uuid"

	"github.com/Laisky/searchhub/library/history"
)

// State is the mutable state of one session.
// A State is owned by the request or program that loaded it and is not
// safe for concurrent use; persist changes with Store.Save.
type State struct {
	ID        string
	History   *history.RecentQueryLog
	Settings  Settings
	UpdatedAt time.Time
}

// NewState returns an empty state for id.
func NewState(id string) *State {
	return &State{
		ID:        id,
		History:   history.NewRecentQueryLog(history.DefaultCapacity),
		Settings:  DefaultSettings(),
		UpdatedAt: gutils.Clock.GetUTCNow(),
	}
}

// Clone returns a deep copy of st.
func (st *State) Clone() *State {
	return &State{
		ID:        st.ID,
		History:   history.RestoreRecentQueryLog(st.History.Capacity(), st.History.List()),
		Settings:  st.Settings,
		UpdatedAt: st.UpdatedAt,
	}
}

// NewID returns a random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store loads and saves session state.
type Store interface {
	// Load returns the state for id, or a fresh state under a new id when
	// id is unknown, expired, or malformed.
	Load(ctx context.Context, id string) (*State, error)
	// Save persists st and refreshes its expiry.
	Save(ctx context.Context, st *State) error
	// Delete forgets the session.
	Delete(ctx context.Context, id string) error
}

// snapshot is the serialisable form of State.
type snapshot struct {
	ID        string    `json:"id"`
	History   []string  `json:"history"`
	Settings  Settings  `json:"settings"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSnapshot(st *State) snapshot {
	return snapshot{
		ID:        st.ID,
		History:   st.History.List(),
		Settings:  st.Settings,
		UpdatedAt: st.UpdatedAt,
	}
}

func (s snapshot) state() *State {
	return &State{
		ID:        s.ID,
		History:   history.RestoreRecentQueryLog(history.DefaultCapacity, s.History),
		Settings:  s.Settings.normalized(),
		UpdatedAt: s.UpdatedAt,
	}
}

func encodeSnapshot(st *State) (string, error) {
	payload, err := json.Marshal(newSnapshot(st))
	if err != nil {
		return "", errors.Wrap(err, "marshal session")
	}
	return string(payload), nil
}

func decodeSnapshot(payload string) (*State, error) {
	var snap snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, errors.Wrap(err, "unmarshal session")
	}
	return snap.state(), nil
}
