// Package keylock provides a mutex per string key. Entries are released once
// no goroutine holds or waits on them.
package keylock

import (
	"sync"
)

// KeyLock serializes work per key.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New constructs an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*entry),
	}
}

// Lock blocks until the key is available and returns the function that
// releases it.
func (kl *KeyLock) Lock(key string) (unlock func()) {
	kl.mu.Lock()
	e, exists := kl.locks[key]
	if !exists {
		e = &entry{}
		kl.locks[key] = e
	}
	e.refs++
	kl.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			kl.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(kl.locks, key)
			}
			kl.mu.Unlock()
		})
	}
}

// Len returns the number of keys currently held or waited on.
func (kl *KeyLock) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	return len(kl.locks)
}
