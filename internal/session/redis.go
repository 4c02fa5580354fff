package session

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"

	rlibs "github.com/Laisky/searchhub/library/db/redis"
)

// sessionKV is the slice of the redis layer RedisStore needs.
type sessionKV interface {
	LoadSession(ctx context.Context, id string) (string, error)
	SaveSession(ctx context.Context, id, payload string, ttl time.Duration) error
	DeleteSession(ctx context.Context, id string) error
}

var _ sessionKV = (*rlibs.DB)(nil)

// RedisStore keeps sessions in redis so several frontends can share them.
// Expiry is delegated to the key TTL.
type RedisStore struct {
	kv  sessionKV
	ttl time.Duration
}

// NewRedisStore stores sessions through db.
func NewRedisStore(db *rlibs.DB, ttl time.Duration) (*RedisStore, error) {
	if db == nil {
		return nil, errors.New("redis db is required")
	}
	return newRedisStore(db, ttl)
}

func newRedisStore(kv sessionKV, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		return nil, errors.New("redis session ttl must be positive")
	}

	return &RedisStore{kv: kv, ttl: ttl}, nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, id string) (*State, error) {
	if !ValidID(id) {
		return NewState(NewID()), nil
	}

	payload, err := s.kv.LoadSession(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "load session %q", id)
	}
	if payload == "" {
		return NewState(NewID()), nil
	}

	st, err := decodeSnapshot(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "decode session %q", id)
	}
	st.ID = id
	return st, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, st *State) error {
	if st == nil || st.ID == "" {
		return errors.New("session state without id")
	}

	st.UpdatedAt = gutils.Clock.GetUTCNow()
	payload, err := encodeSnapshot(st)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(s.kv.SaveSession(ctx, st.ID, payload, s.ttl))
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return errors.WithStack(s.kv.DeleteSession(ctx, id))
}
