// Package ratelimit caps generator requests so an aggressive schedule cannot
// burn through the Gemini free-tier quota.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

type Limiter struct {
	mu        sync.Mutex
	count     int
	max       int // 0 = unlimited
	resetTime time.Time
}

// New creates a limiter allowing max requests per day.
func New(max int) *Limiter {
	return &Limiter{
		max:       max,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow reports whether one more generator request fits the daily budget
// and, if so, counts it.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	if l.max > 0 && l.count >= l.max {
		slog.Warn("generator request budget exhausted", "used", l.count, "max", l.max)
		return false
	}

	l.count++
	return true
}

// Used returns the number of requests counted in the current window.
func (l *Limiter) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	return l.count
}

func (l *Limiter) checkReset() {
	if time.Now().After(l.resetTime) {
		l.count = 0
		l.resetTime = time.Now().Add(24 * time.Hour)
	}
}
