package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/ratelimit"
)

func TestAllow(t *testing.T) {
	l := ratelimit.New(1, 2, time.Minute)
	now := time.Now()

	require.True(t, l.Allow("a", now))
	require.True(t, l.Allow("a", now))
	require.False(t, l.Allow("a", now))

	// Other keys have their own bucket.
	require.True(t, l.Allow("b", now))

	// Tokens refill over time.
	require.True(t, l.Allow("a", now.Add(time.Second)))

	// Blank keys are never limited.
	for i := 0; i < 5; i++ {
		require.True(t, l.Allow(" ", now))
	}
	require.Equal(t, 2, l.Len())
}

func TestDisabled(t *testing.T) {
	l := ratelimit.New(0, 0, 0)
	require.Nil(t, l)

	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("a", time.Now()))
	}
	require.Zero(t, l.Len())
}

func TestEvict(t *testing.T) {
	l := ratelimit.New(1000, 1000, time.Second)
	start := time.Now()

	require.True(t, l.Allow("idle", start))

	later := start.Add(time.Minute)
	for i := 0; i < 511; i++ {
		l.Allow("busy", later)
	}

	require.Equal(t, 1, l.Len())
}
