package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestAllowExactlyCapacityInFreshWindow(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Minute, 10).WithClock(clock.Now)

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("datagov"), "admission %d should pass", i+1)
	}
	assert.False(t, l.Allow("datagov"), "11th admission should be denied")
	assert.False(t, l.Allow("datagov"), "denial must not reset the window")
}

func TestAllowResetsAfterWindow(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Minute, 2).WithClock(clock.Now)

	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	// Exactly W elapsed is still inside the window.
	clock.Advance(time.Minute)
	assert.False(t, l.Allow("k"))

	clock.Advance(time.Millisecond)
	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Minute, 1).WithClock(clock.Now)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.Len())
}

func TestAllowConcurrentNeverExceedsCapacity(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Minute, 25).WithClock(clock.Now)

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared") {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(25), admitted)
}

func TestPurgeDropsIdleWindows(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Minute, 5).WithClock(clock.Now)

	l.Allow("old")
	clock.Advance(2 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Purge())
	assert.Equal(t, 1, l.Len())

	l.Reset("fresh")
	assert.Equal(t, 0, l.Len())
}

// A caller that loaded a window just before Purge removed it must not count
// against the orphan, or the key could see capacity+1 admissions.
func TestAllowSkipsPurgedWindow(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Minute, 1).WithClock(clock.Now)

	l.Allow("datagov")
	v, _ := l.windows.Load("datagov")
	stale := v.(*window)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, l.Purge())
	assert.True(t, l.Allow("datagov"), "fresh window admits")

	_, ok := l.admit("datagov", stale, clock.Now())
	assert.False(t, ok, "purged window is rejected so the caller reloads")
	assert.False(t, l.Allow("datagov"), "reloaded window is already full")
}

func TestResetMarksWindowDead(t *testing.T) {
	l := New(time.Minute, 3)
	l.Allow("k")
	v, _ := l.windows.Load("k")

	l.Reset("k")

	_, ok := l.admit("k", v.(*window), time.Now())
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
}
