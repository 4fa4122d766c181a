// Package ratelimit guards upstream calls with per-key fixed-window admission.
package ratelimit

import (
	"log"
	"sync"
	"time"
)

// window is one key's counter. Each window carries its own mutex so that
// admissions for unrelated keys never contend.
type window struct {
	mu    sync.Mutex
	count int
	start time.Time
	// dead is set under mu once the window has been removed from the map.
	dead bool
}

// Limiter is a fixed-window counter per key: at most capacity admissions per
// key within each window of the configured length.
type Limiter struct {
	length   time.Duration
	capacity int
	now      func() time.Time

	windows sync.Map // string -> *window
}

// New creates a Limiter allowing capacity admissions per key per window.
func New(length time.Duration, capacity int) *Limiter {
	return &Limiter{
		length:   length,
		capacity: capacity,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow reports whether one more call for key is admitted. A denial leaves
// the window untouched.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	for {
		v, loaded := l.windows.LoadOrStore(key, &window{count: 1, start: now})
		if !loaded {
			return true
		}
		if allowed, ok := l.admit(key, v.(*window), now); ok {
			return allowed
		}
		// The window was purged between load and lock; use its successor.
	}
}

// admit counts one call against w. ok is false when w is no longer the
// key's live window.
func (l *Limiter) admit(key string, w *window, now time.Time) (allowed, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dead {
		return false, false
	}

	if now.Sub(w.start) > l.length {
		w.count = 1
		w.start = now
		return true, true
	}

	if w.count >= l.capacity {
		log.Printf("[ratelimit] limit exceeded for key=%s count=%d", key, w.count)
		return false, true
	}

	w.count++
	return true, true
}

// Reset forgets the window for key.
func (l *Limiter) Reset(key string) {
	v, ok := l.windows.Load(key)
	if !ok {
		return
	}
	w := v.(*window)
	w.mu.Lock()
	defer w.mu.Unlock()
	if l.windows.CompareAndDelete(key, w) {
		w.dead = true
	}
}

// Purge drops windows idle for longer than the window length and returns how
// many were removed.
func (l *Limiter) Purge() int {
	now := l.now()
	removed := 0
	l.windows.Range(func(k, v any) bool {
		w := v.(*window)
		w.mu.Lock()
		defer w.mu.Unlock()
		if now.Sub(w.start) > l.length && l.windows.CompareAndDelete(k, w) {
			w.dead = true
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	n := 0
	l.windows.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
