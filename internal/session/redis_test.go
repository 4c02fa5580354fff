package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
)

// memKV mimics the redis layer, including ttl bookkeeping.
type memKV struct {
	mu    sync.Mutex
	items map[string]string
	ttls  map[string]time.Duration
	err   error
}

func newMemKV() *memKV {
	return &memKV{items: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (kv *memKV) LoadSession(_ context.Context, id string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.err != nil {
		return "", kv.err
	}
	return kv.items[id], nil
}

func (kv *memKV) SaveSession(_ context.Context, id, payload string, ttl time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.err != nil {
		return kv.err
	}
	kv.items[id] = payload
	kv.ttls[id] = ttl
	return nil
}

func (kv *memKV) DeleteSession(_ context.Context, id string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.items, id)
	delete(kv.ttls, id)
	return nil
}

func TestRedisStoreRoundTrip(t *testing.T) {
	kv := newMemKV()
	store, err := newRedisStore(kv, 30*time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	st, err := store.Load(ctx, "")
	require.NoError(t, err)
	st.History.Record("golang")
	st.History.Record("rust news")
	st.Settings = Settings{SafeSearch: SafeSearchStrict, ResultsPerPage: 15}
	require.NoError(t, store.Save(ctx, st))
	require.Equal(t, 30*time.Minute, kv.ttls[st.ID])

	got, err := store.Load(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, st.ID, got.ID)
	require.Equal(t, []string{"rust news", "golang"}, got.History.List())
	require.Equal(t, st.Settings, got.Settings)

	require.NoError(t, store.Delete(ctx, st.ID))
	got, err = store.Load(ctx, st.ID)
	require.NoError(t, err)
	require.NotEqual(t, st.ID, got.ID)
	require.Empty(t, got.History.List())
}

func TestRedisStoreMissingSessionIsFresh(t *testing.T) {
	store, err := newRedisStore(newMemKV(), time.Minute)
	require.NoError(t, err)

	id := NewID()
	st, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	require.NotEqual(t, id, st.ID)
	require.True(t, ValidID(st.ID))
}

func TestRedisStoreErrors(t *testing.T) {
	kv := newMemKV()
	store, err := newRedisStore(kv, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	id := NewID()
	kv.items[id] = "{not json"
	_, err = store.Load(ctx, id)
	require.Error(t, err)

	kv.err = errors.New("connection refused")
	_, err = store.Load(ctx, NewID())
	require.ErrorContains(t, err, "connection refused")
	require.Error(t, store.Save(ctx, NewState(NewID())))
	require.Error(t, store.Save(ctx, &State{}))
}

func TestNewRedisStoreValidation(t *testing.T) {
	_, err := NewRedisStore(nil, time.Minute)
	require.Error(t, err)
	_, err = newRedisStore(newMemKV(), 0)
	require.Error(t, err)
}
