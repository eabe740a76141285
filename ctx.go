package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var profileCtxKey = &contextKey{"profile"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the UserProfile in the given context
func WithContext(r context.Context, user *UserProfile) context.Context {
	return context.WithValue(r, profileCtxKey, user)
}

// FromContext finds the user profile from the context.
func FromContext(ctx context.Context) (*UserProfile, bool) {
	raw, ok := ctx.Value(profileCtxKey).(*UserProfile)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// GetRouterClaims extracts the AuthClaims from the router context
func GetRouterClaims(ctx router.Context, key string) (AuthClaims, bool) {
	if key == "" {
		key = "user" // Default key used by JWT middleware
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// HasRole checks the role claim directly from the standard context
func HasRole(ctx context.Context, role string) bool {
	claims, ok := GetClaims(ctx)
	if !ok {
		return false
	}
	return claims.HasRole(role)
}

// HasRoleFromRouter checks the role claim directly from the router context
func HasRoleFromRouter(ctx router.Context, role string) bool {
	claims, ok := GetRouterClaims(ctx, "")
	if !ok {
		return false
	}
	return claims.HasRole(role)
}
