package auth_test

import (
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-otp"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAdmit(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("allows up to three attempts per window", func(t *testing.T) {
		limiter := auth.NewRateLimiter(auth.WithRateLimitClock(clock))

		assert.True(t, limiter.Admit("user@example.com"))
		assert.True(t, limiter.Admit("user@example.com"))
		assert.True(t, limiter.Admit("user@example.com"))
		assert.False(t, limiter.Admit("user@example.com"))
	})

	t.Run("identities are tracked independently", func(t *testing.T) {
		limiter := auth.NewRateLimiter(auth.WithRateLimitClock(clock))

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Admit("first@example.com"))
		}
		assert.False(t, limiter.Admit("first@example.com"))

		assert.True(t, limiter.Admit("second@example.com"))
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		current := now
		limiter := auth.NewRateLimiter(auth.WithRateLimitClock(func() time.Time { return current }))

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Admit("user@example.com"))
		}
		assert.False(t, limiter.Admit("user@example.com"))

		current = current.Add(time.Minute)
		assert.True(t, limiter.Admit("user@example.com"))
		assert.Equal(t, 1, limiter.Attempts("user@example.com"))
	})

	t.Run("refused attempts do not extend the window", func(t *testing.T) {
		current := now
		limiter := auth.NewRateLimiter(auth.WithRateLimitClock(func() time.Time { return current }))

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Admit("user@example.com"))
		}

		// hammering while blocked must not push the reset further out
		current = current.Add(30 * time.Second)
		assert.False(t, limiter.Admit("user@example.com"))

		current = current.Add(30 * time.Second)
		assert.True(t, limiter.Admit("user@example.com"))
	})

	t.Run("custom window and max attempts", func(t *testing.T) {
		current := now
		limiter := auth.NewRateLimiter(
			auth.WithRateLimitWindow(10*time.Second),
			auth.WithRateLimitMaxAttempts(1),
			auth.WithRateLimitClock(func() time.Time { return current }),
		)

		assert.True(t, limiter.Admit("user@example.com"))
		assert.False(t, limiter.Admit("user@example.com"))

		current = current.Add(10 * time.Second)
		assert.True(t, limiter.Admit("user@example.com"))
	})
}
