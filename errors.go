package auth

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeFieldsRequired   = "auth_fields_required"
	TextCodePasswordMismatch = "auth_password_mismatch"
	TextCodeEmailTaken       = "auth_email_taken"
	TextCodeInvalidCreds     = "auth_invalid_credentials"
	TextCodeInvalidOTP       = "auth_invalid_otp"
	TextCodeTooManyRequests  = "auth_too_many_requests"
	TextCodeOTPDispatch      = "auth_otp_dispatch_failed"
	TextCodeTokenExpired     = "auth_token_expired"
	TextCodeTokenMalformed   = "auth_token_malformed"
	TextCodeSessionNotFound  = "auth_session_not_found"
)

// ErrFieldsRequired is returned when a signup or login payload is missing
// required fields.
var ErrFieldsRequired = errors.New("fields required", errors.CategoryValidation).
	WithTextCode(TextCodeFieldsRequired).
	WithCode(errors.CodeBadRequest)

// ErrPasswordMismatch is returned when the signup confirmation does not
// match the password.
var ErrPasswordMismatch = errors.New("passwords do not match", errors.CategoryValidation).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeBadRequest)

// ErrEmailTaken is returned when a signup email already has a credential.
var ErrEmailTaken = errors.New("already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials carries one generic message for both unknown email
// and wrong password so responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidOTP covers missing credential, absent or mismatched code, and
// expired code with a single message.
var ErrInvalidOTP = errors.New("invalid or expired code", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidOTP).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyRequests is returned when the OTP issuance window is exhausted.
// It is distinguishable from authentication failures so callers can back off.
var ErrTooManyRequests = errors.New("too many requests", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyRequests).
	WithCode(http.StatusTooManyRequests)

// ErrOTPDispatchFailed is returned when the notifier cannot deliver the
// code. The already persisted OTP remains valid until its natural expiry.
var ErrOTPDispatchFailed = errors.New("could not deliver verification code", errors.CategoryInternal).
	WithTextCode(TextCodeOTPDispatch).
	WithCode(errors.CodeInternal)

// ErrTokenExpired is the structured error for expired session tokens.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is the structured error for tokens that fail parsing
// or signature validation.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is the error when a request carries no session
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsAuthError reports whether err is a generic authentication rejection.
func IsAuthError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}

// IsRateLimitError reports whether err is an OTP issuance rate limit hit.
func IsRateLimitError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryRateLimit
}

// IsValidationError reports whether err is a recoverable payload problem.
func IsValidationError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryValidation ||
		richErr.Category == errors.CategoryConflict ||
		richErr.Category == errors.CategoryBadInput
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
