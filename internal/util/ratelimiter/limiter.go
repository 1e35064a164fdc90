package ratelimiter

import (
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Limiter lets at most one action through per interval.
// The progress reporter uses it to throttle emissions; it is safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	clock       clockwork.Clock
	interval    time.Duration
	lastAllowed time.Time
	used        bool
}

// New creates a limiter driven by the wall clock
func New(interval time.Duration) *Limiter {
	return NewWithClock(interval, clockwork.NewRealClock())
}

// NewWithClock creates a limiter driven by clock; tests pass a clockwork.FakeClock
func NewWithClock(interval time.Duration, clock clockwork.Clock) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Limiter{
		clock:    clock,
		interval: interval,
	}
}

// Allow reports whether an action may run now. When it may, the current
// time is recorded. Otherwise the remaining wait is returned.
func (l *Limiter) Allow() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if !l.used {
		l.used = true
		l.lastAllowed = now
		return true, 0
	}

	elapsed := now.Sub(l.lastAllowed)
	if elapsed >= l.interval {
		l.lastAllowed = now
		return true, 0
	}

	return false, l.interval - elapsed
}

// Reset clears the limiter state so the next action is allowed immediately
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.lastAllowed = time.Time{}
	l.used = false
	l.mu.Unlock()
}

// TimeSinceLastAllowed returns the duration since the last allowed action,
// or the maximum duration if nothing has been allowed yet
func (l *Limiter) TimeSinceLastAllowed() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.used {
		return time.Duration(math.MaxInt64)
	}
	return l.clock.Since(l.lastAllowed)
}

// Interval returns the configured interval
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Clock returns the clock driving the limiter
func (l *Limiter) Clock() clockwork.Clock {
	return l.clock
}
