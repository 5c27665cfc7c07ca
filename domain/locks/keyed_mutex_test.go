package locks

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	var inside int32
	var maxInside int32

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			unlock := km.Lock(7)
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			return nil
		})
	}
	assert.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()
	unlockA := km.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := km.Lock(2)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedMutex_UnlockIsIdempotent(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.Lock(1)
	unlock()
	unlock()
	assert.Equal(t, 0, km.Len())

	unlock = km.Lock(1)
	unlock()
}

func TestKeyedMutex_LockPairOppositeOrderNoDeadlock(t *testing.T) {
	km := NewKeyedMutex()
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := km.LockPair(1, 2)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := km.LockPair(2, 1)
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("opposite-order pair locking deadlocked")
	}
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_LockPairSameKey(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.LockPair(3, 3)
	assert.Equal(t, 1, km.Len())
	unlock()
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_LockAllBlocksEachKey(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.LockAll([]int64{3, 1, 2, 1})
	assert.Equal(t, 3, km.Len())

	acquired := make(chan struct{})
	go func() {
		release := km.Lock(2)
		release()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("key 2 was acquired while LockAll held it")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("key 2 was not released")
	}
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_LockAllAgainstPairsNoDeadlock(t *testing.T) {
	km := NewKeyedMutex()
	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			unlock := km.LockPair(int64(5-i%5), int64(i%5))
			unlock()
			return nil
		})
		g.Go(func() error {
			unlock := km.LockAll([]int64{4, 0, 2, 5, 1, 3})
			unlock()
			return nil
		})
	}

	done := make(chan error)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("deadlock between LockAll and LockPair")
	}
}
