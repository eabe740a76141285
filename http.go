package auth

import (
	"github.com/goliatone/go-auth-otp/middleware/jwtware"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RouteGuard wires the JWT middleware for protected endpoints. It
// validates bearer tokens through the TokenService and exposes the
// resulting claims under the configured context key.
type RouteGuard struct {
	tokens       TokenService
	cfg          Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewRouteGuard(tokens TokenService, cfg Config) (*RouteGuard, error) {
	if tokens == nil {
		return nil, goerrors.New("token service is required", goerrors.CategoryInternal)
	}

	g := &RouteGuard{
		tokens: tokens,
		cfg:    cfg,
		Logger: defLogger{},
	}

	g.ErrorHandler = g.defaultErrHandler

	return g, nil
}

// ProtectedRoute returns middleware that rejects requests without a
// valid token.
func (g *RouteGuard) ProtectedRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = g.ErrorHandler
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler:    errorHandler,
		TokenValidator:  tokenValidatorAdapter{tokens: g.tokens},
		ContextKey:      g.cfg.GetContextKey(),
		TokenLookup:     g.cfg.GetTokenLookup(),
		AuthScheme:      g.cfg.GetAuthScheme(),
		ContextEnricher: ContextEnricherAdapter,
	})
}

// RequireRole is ProtectedRoute plus an exact role check.
func (g *RouteGuard) RequireRole(role string, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = g.ErrorHandler
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler:    errorHandler,
		TokenValidator:  tokenValidatorAdapter{tokens: g.tokens},
		ContextKey:      g.cfg.GetContextKey(),
		TokenLookup:     g.cfg.GetTokenLookup(),
		AuthScheme:      g.cfg.GetAuthScheme(),
		ContextEnricher: ContextEnricherAdapter,
		RequiredRole:    role,
	})
}

func (g *RouteGuard) defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error

	if IsTokenExpiredError(err) {
		richErr = ErrTokenExpired
	} else if IsMalformedError(err) {
		richErr = ErrTokenMalformed
	} else {
		richErr = goerrors.Wrap(err, goerrors.CategoryAuth, "Invalid authentication token").
			WithCode(goerrors.CodeUnauthorized)
	}

	g.Logger.Info(
		"Authentication rejected",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
	)

	return c.JSON(router.StatusUnauthorized, map[string]any{
		"message": richErr.Message,
	})
}

// GetRouterSession reads the claims the middleware stored in the router
// context and returns the session view.
func GetRouterSession(c router.Context, key string) (*SessionObject, error) {
	stored := c.Locals(key)
	if stored == nil {
		return nil, ErrUnableToFindSession
	}

	claims, ok := stored.(AuthClaims)
	if claims == nil || !ok {
		return nil, ErrUnableToMapClaims
	}

	return sessionFromAuthClaims(claims)
}

// tokenValidatorAdapter bridges TokenService to the middleware without
// an import cycle.
type tokenValidatorAdapter struct {
	tokens TokenService
}

func (a tokenValidatorAdapter) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := a.tokens.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
