package auth_test

import (
	"testing"

	auth "github.com/goliatone/go-auth-otp"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		textCode string
	}{
		{"fields required", auth.ErrFieldsRequired, goerrors.CategoryValidation, auth.TextCodeFieldsRequired},
		{"password mismatch", auth.ErrPasswordMismatch, goerrors.CategoryValidation, auth.TextCodePasswordMismatch},
		{"email taken", auth.ErrEmailTaken, goerrors.CategoryConflict, auth.TextCodeEmailTaken},
		{"invalid credentials", auth.ErrInvalidCredentials, goerrors.CategoryAuth, auth.TextCodeInvalidCreds},
		{"invalid otp", auth.ErrInvalidOTP, goerrors.CategoryAuth, auth.TextCodeInvalidOTP},
		{"too many requests", auth.ErrTooManyRequests, goerrors.CategoryRateLimit, auth.TextCodeTooManyRequests},
		{"otp dispatch failed", auth.ErrOTPDispatchFailed, goerrors.CategoryInternal, auth.TextCodeOTPDispatch},
		{"token expired", auth.ErrTokenExpired, goerrors.CategoryAuth, auth.TextCodeTokenExpired},
		{"token malformed", auth.ErrTokenMalformed, goerrors.CategoryAuth, auth.TextCodeTokenMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NotNil(t, tc.err)
			assert.Equal(t, tc.category, tc.err.Category)
			assert.Equal(t, tc.textCode, tc.err.TextCode)
		})
	}
}

func TestGenericMessagesDoNotLeakCause(t *testing.T) {
	// unknown account and wrong password share one message, wrong code
	// and expired code share another
	assert.Equal(t, "invalid email or password", auth.ErrInvalidCredentials.Message)
	assert.Equal(t, "invalid or expired code", auth.ErrInvalidOTP.Message)
	assert.NotContains(t, auth.ErrInvalidCredentials.Message, "not found")
	assert.NotContains(t, auth.ErrInvalidOTP.Message, "expired code for")
}

func TestErrorPredicates(t *testing.T) {
	t.Run("IsAuthError", func(t *testing.T) {
		assert.True(t, auth.IsAuthError(auth.ErrInvalidCredentials))
		assert.True(t, auth.IsAuthError(auth.ErrInvalidOTP))
		assert.False(t, auth.IsAuthError(auth.ErrTooManyRequests))
		assert.False(t, auth.IsAuthError(nil))
	})

	t.Run("IsRateLimitError", func(t *testing.T) {
		assert.True(t, auth.IsRateLimitError(auth.ErrTooManyRequests))
		assert.False(t, auth.IsRateLimitError(auth.ErrInvalidCredentials))
	})

	t.Run("IsValidationError", func(t *testing.T) {
		assert.True(t, auth.IsValidationError(auth.ErrFieldsRequired))
		assert.True(t, auth.IsValidationError(auth.ErrPasswordMismatch))
		assert.True(t, auth.IsValidationError(auth.ErrEmailTaken))
		assert.False(t, auth.IsValidationError(auth.ErrInvalidOTP))
	})

	t.Run("IsTokenExpiredError matches wrapped errors", func(t *testing.T) {
		wrapped := goerrors.Wrap(auth.ErrTokenExpired, goerrors.CategoryAuth, "validating session")
		assert.True(t, auth.IsTokenExpiredError(wrapped))
		assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	})

	t.Run("IsMalformedError matches middleware errors", func(t *testing.T) {
		assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
		assert.False(t, auth.IsMalformedError(nil))
	})
}
