package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestThrottle(t *testing.T, cfg SearchThrottleCfg, now *time.Time) *SearchThrottle {
	t.Helper()
	th, err := NewSearchThrottle(cfg)
	require.NoError(t, err)
	th.now = func() time.Time { return *now }
	return th
}

func TestNewSearchThrottleValidates(t *testing.T) {
	_, err := NewSearchThrottle(SearchThrottleCfg{})
	require.Error(t, err)

	_, err = NewSearchThrottle(SearchThrottleCfg{
		TotalNPerSec: 1, TotalBurst: 0,
		EachSessionNPerSec: 1, EachSessionBurst: 1,
	})
	require.Error(t, err)
}

func TestSearchThrottlePerSession(t *testing.T) {
	now := time.Unix(1700000000, 0)
	th := newTestThrottle(t, SearchThrottleCfg{
		TotalNPerSec: 100, TotalBurst: 100,
		EachSessionNPerSec: 1, EachSessionBurst: 2,
	}, &now)

	require.True(t, th.Allow("alice"))
	require.True(t, th.Allow("alice"))
	require.False(t, th.Allow("alice"))

	// other sessions are unaffected
	require.True(t, th.Allow("bob"))

	now = now.Add(time.Second)
	require.True(t, th.Allow("alice"))
}

func TestSearchThrottleTotal(t *testing.T) {
	now := time.Unix(1700000000, 0)
	th := newTestThrottle(t, SearchThrottleCfg{
		TotalNPerSec: 1, TotalBurst: 2,
		EachSessionNPerSec: 10, EachSessionBurst: 10,
	}, &now)

	require.True(t, th.Allow("a"))
	require.True(t, th.Allow("b"))
	require.False(t, th.Allow("c"))
}

func TestSearchThrottleSweep(t *testing.T) {
	now := time.Unix(1700000000, 0)
	th := newTestThrottle(t, SearchThrottleCfg{
		TotalNPerSec: 10, TotalBurst: 10,
		EachSessionNPerSec: 10, EachSessionBurst: 10,
		IdleTTL: time.Minute,
	}, &now)

	th.Allow("old")
	now = now.Add(2 * time.Minute)
	th.Allow("fresh")

	require.Equal(t, 1, th.Sweep())
	require.Len(t, th.sessions, 1)
	require.Contains(t, th.sessions, "fresh")
}

func TestNilSearchThrottleAllows(t *testing.T) {
	var th *SearchThrottle
	require.True(t, th.Allow("anyone"))
	require.Equal(t, 0, th.Sweep())
}
