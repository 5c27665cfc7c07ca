// Package locks provides per-account mutual exclusion.
package locks

import (
	"slices"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex hands out one mutex per key. Entries are reference counted and
// removed once no goroutine holds or waits for them.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewKeyedMutex creates an empty lock table
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[int64]*entry)}
}

// Lock blocks until key is held and returns the matching unlock function
func (k *KeyedMutex) Lock(key int64) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.entries, key)
			}
			k.mu.Unlock()
		})
	}
}

// LockPair locks two keys in ascending order so concurrent transfers in
// opposite directions cannot deadlock. Locking the same key twice takes it once.
func (k *KeyedMutex) LockPair(a, b int64) func() {
	if a == b {
		return k.Lock(a)
	}
	if a > b {
		a, b = b, a
	}
	unlockFirst := k.Lock(a)
	unlockSecond := k.Lock(b)
	return func() {
		unlockSecond()
		unlockFirst()
	}
}

// LockAll locks every key in ascending order, taking duplicates once, and
// returns a function that releases them in reverse
func (k *KeyedMutex) LockAll(keys []int64) func() {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	unlocks := make([]func(), 0, len(sorted))
	for _, key := range sorted {
		unlocks = append(unlocks, k.Lock(key))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// Len returns the number of live entries
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
