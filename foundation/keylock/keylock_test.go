package keylock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/keylock"
)

func TestLockSerializesKey(t *testing.T) {
	kl := keylock.New()

	var (
		wg      sync.WaitGroup
		active  atomic.Int32
		maxSeen atomic.Int32
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			unlock := kl.Lock("alice")
			defer unlock()

			n := active.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}

	wg.Wait()
	require.Equal(t, int32(1), maxSeen.Load())
	require.Equal(t, 0, kl.Len())
}

func TestLockIndependentKeys(t *testing.T) {
	kl := keylock.New()

	unlockAlice := kl.Lock("alice")

	done := make(chan struct{})
	go func() {
		unlock := kl.Lock("bob")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bob blocked behind alice")
	}

	require.Equal(t, 1, kl.Len())

	// Calling unlock twice is safe.
	unlockAlice()
	unlockAlice()
	require.Equal(t, 0, kl.Len())
}
