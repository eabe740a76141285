package auth

import (
	"context"

	"github.com/goliatone/go-auth-otp/middleware/jwtware"
)

// ContextEnricherAdapter adapts jwtware.AuthClaims to auth.AuthClaims and
// stores the claims in the standard context so handlers can reach them
// through GetClaims without touching the router context.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}
