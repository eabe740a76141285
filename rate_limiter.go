package auth

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimitWindow bounds how often one identity can trigger
	// OTP issuance.
	DefaultRateLimitWindow = time.Minute
	// DefaultRateLimitMaxAttempts is the per window issuance cap.
	DefaultRateLimitMaxAttempts = 3
)

type rateLimitEntry struct {
	attempts    int
	windowStart time.Time
}

// RateLimiter is sliding window admission control for OTP issuance,
// keyed by email. State is owned by the instance, injected where needed,
// and lives only for the process lifetime: a restart resets every
// counter, which is accepted behavior, not a defect.
type RateLimiter struct {
	mu          sync.Mutex
	entries     map[string]*rateLimitEntry
	window      time.Duration
	maxAttempts int
	now         func() time.Time
}

type RateLimiterOption func(*RateLimiter)

// WithRateLimitWindow overrides the window duration.
func WithRateLimitWindow(window time.Duration) RateLimiterOption {
	return func(l *RateLimiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// WithRateLimitMaxAttempts overrides the per window cap.
func WithRateLimitMaxAttempts(max int) RateLimiterOption {
	return func(l *RateLimiter) {
		if max > 0 {
			l.maxAttempts = max
		}
	}
}

// WithRateLimitClock overrides the clock, for tests.
func WithRateLimitClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		entries:     map[string]*rateLimitEntry{},
		window:      DefaultRateLimitWindow,
		maxAttempts: DefaultRateLimitMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Admit reports whether identity may trigger another OTP issuance and, if
// so, counts the attempt. A refused call does not consume an attempt. The
// single mutex is fine here: the critical section is sub-millisecond and
// contention is per login, not per request.
func (l *RateLimiter) Admit(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	entry, ok := l.entries[identity]
	if !ok || now.Sub(entry.windowStart) >= l.window {
		// window restarts on the first admitted attempt after expiry
		l.entries[identity] = &rateLimitEntry{
			attempts:    1,
			windowStart: now,
		}
		return true
	}

	if entry.attempts >= l.maxAttempts {
		return false
	}

	entry.attempts++
	return true
}

// Attempts returns the counted attempts for identity inside the current
// window, zero when the window has lapsed.
func (l *RateLimiter) Attempts(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[identity]
	if !ok || l.now().Sub(entry.windowStart) >= l.window {
		return 0
	}
	return entry.attempts
}
