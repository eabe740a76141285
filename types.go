package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Session holds attributes that are part of an auth session
type Session interface {
	GetUserID() string
	GetIssuer() string
	GetAudience() []string
	GetIssuedAt() *time.Time
	GetData() map[string]any
}

// TokenService issues and validates the signed session credential
// returned to callers that complete the OTP step.
type TokenService interface {
	Issue(user *UserProfile) (string, error)
	Validate(token string) (AuthClaims, error)
}

// Notifier delivers one time passcodes to the account owner. Send
// failures must be returned, never swallowed, so the flow can surface
// a server error while the stored code stays valid until its expiry.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetPasswordKey() string
	GetSigningMethod() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
