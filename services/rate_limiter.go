package services

import (
	"sync"
	"time"
)

// RateLimiter gates note submissions per client key using a fixed window
// budget. State is process-local; a restart clears all budgets.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*clientWindow
	limit     int
	window    time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type clientWindow struct {
	start time.Time
	used  int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether clientKey may spend cost points in its current
// window. When denied, the returned duration is the time left until the
// client's window resets.
func (rl *RateLimiter) Allow(clientKey string, cost int) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	w, ok := rl.windows[clientKey]
	if !ok || now.Sub(w.start) >= rl.window {
		w = &clientWindow{start: now}
		rl.windows[clientKey] = w
	}

	if w.used+cost > rl.limit {
		return false, w.start.Add(rl.window).Sub(now)
	}

	w.used += cost
	return true, 0
}

// pruneLocked drops expired windows at most once per window duration.
// Callers must hold mu.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(rl.lastPrune) < rl.window {
		return
	}
	rl.lastPrune = now
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.window {
			delete(rl.windows, key)
		}
	}
}
