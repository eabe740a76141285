package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-auth-otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *auth.TokenServiceImpl {
	t.Helper()

	svc, err := auth.NewTokenService(
		[]byte("test-signing-key"),
		24,
		"test-issuer",
		jwt.ClaimStrings{"test:audience"},
		nil,
	)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("requires signing key", func(t *testing.T) {
		_, err := auth.NewTokenService(nil, 24, "test-issuer", nil, nil)
		require.Error(t, err)
	})

	t.Run("defaults token expiration", func(t *testing.T) {
		svc, err := auth.NewTokenService([]byte("key"), 0, "", nil, nil)
		require.NoError(t, err)
		require.NotNil(t, svc)
	})
}

func TestTokenServiceIssue(t *testing.T) {
	svc := newTestTokenService(t)

	user := &auth.UserProfile{
		UserID:   42,
		Email:    "test@example.com",
		Username: "testuser",
		Role:     auth.RoleUser,
	}

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &auth.JWTClaims{}, func(t *jwt.Token) (any, error) {
		return []byte("test-signing-key"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, jwt.SigningMethodHS512.Alg(), parsed.Method.Alg())

	claims, ok := parsed.Claims.(*auth.JWTClaims)
	require.True(t, ok)
	assert.Equal(t, "42", claims.Subject())
	assert.Equal(t, "42", claims.UserID())
	assert.Equal(t, auth.RoleUser, claims.Role())
	assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"test:audience"}, claims.RegisteredClaims.Audience)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.Expires(), time.Minute)

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := svc.Issue(nil)
		require.Error(t, err)
	})

	t.Run("token ids are unique", func(t *testing.T) {
		second, err := svc.Issue(user)
		require.NoError(t, err)
		assert.NotEqual(t, token, second)
	})
}

func TestTokenServiceValidate(t *testing.T) {
	svc := newTestTokenService(t)

	user := &auth.UserProfile{
		UserID: 42,
		Email:  "test@example.com",
		Role:   auth.RoleUser,
	}

	t.Run("accepts its own tokens", func(t *testing.T) {
		token, err := svc.Issue(user)
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject())
		assert.True(t, claims.HasRole(auth.RoleUser))
		assert.False(t, claims.HasRole("admin"))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		other, err := auth.NewTokenService(
			[]byte("other-key"), 24, "test-issuer", jwt.ClaimStrings{"test:audience"}, nil)
		require.NoError(t, err)

		token, err := other.Issue(user)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		require.Error(t, err)
	})

	t.Run("rejects non HMAC signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "42",
			"iss": "test-issuer",
			"aud": "test:audience",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		require.Error(t, err)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other, err := auth.NewTokenService(
			[]byte("test-signing-key"), 24, "other-issuer", jwt.ClaimStrings{"test:audience"}, nil)
		require.NoError(t, err)

		token, err := other.Issue(user)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		require.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				Issuer:    "test-issuer",
				Audience:  jwt.ClaimStrings{"test:audience"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
			UID:      "42",
			UserRole: auth.RoleUser,
		}

		signed, err := svc.SignClaims(claims)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})
}
