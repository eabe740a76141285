package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
)

// DefaultOTPTTL is the lifetime of an issued code. Expiry is absolute,
// computed from issuance time, never from the last check.
const DefaultOTPTTL = 5 * time.Minute

const (
	otpMin  = 100_000
	otpSpan = 900_000
)

// OTPGenerator produces 6 digit one time codes from a cryptographically
// secure source. A predictable code would defeat the second factor.
type OTPGenerator struct {
	ttl time.Duration
	now func() time.Time
}

type OTPGeneratorOption func(*OTPGenerator)

// WithOTPTTL overrides the code lifetime.
func WithOTPTTL(ttl time.Duration) OTPGeneratorOption {
	return func(g *OTPGenerator) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithOTPClock overrides the clock, for tests.
func WithOTPClock(now func() time.Time) OTPGeneratorOption {
	return func(g *OTPGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

func NewOTPGenerator(opts ...OTPGeneratorOption) *OTPGenerator {
	g := &OTPGenerator{
		ttl: DefaultOTPTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Generate returns a uniformly random code in [100000, 999999] and its
// absolute expiry.
func (g *OTPGenerator) Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.CategoryInternal, "failed to generate one time code")
	}

	code := otpMin + n.Int64()
	return strconv.FormatInt(code, 10), g.now().Add(g.ttl), nil
}

// TTL exposes the configured code lifetime.
func (g *OTPGenerator) TTL() time.Duration {
	return g.ttl
}
