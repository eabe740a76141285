package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

const otpEmailSubject = "Your verification code"

func otpEmailBody(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your one time passcode is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
}

// SignupInput is the payload for AuthFlow.Signup
type SignupInput struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Username             string `json:"username"`
}

// AuthSession is returned on successful OTP verification. The token is
// transient: nothing is stored after issuance, expiry is the only
// invalidation path.
type AuthSession struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user_details"`
}

// AuthFlow orchestrates signup, the two phase login, and token issuance.
// All collaborators are injected; the rate limiter in particular is owned
// by the flow instance rather than living in package state, so tests and
// multi instance deployments stay isolated.
type AuthFlow struct {
	repo     RepositoryManager
	hasher   *PasswordHasher
	otp      *OTPGenerator
	limiter  *RateLimiter
	tokens   TokenService
	notifier Notifier
	logger   Logger
	now      func() time.Time
}

type AuthFlowOption func(*AuthFlow)

func WithLogger(logger Logger) AuthFlowOption {
	return func(f *AuthFlow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithRateLimiter(limiter *RateLimiter) AuthFlowOption {
	return func(f *AuthFlow) {
		if limiter != nil {
			f.limiter = limiter
		}
	}
}

func WithOTPGenerator(gen *OTPGenerator) AuthFlowOption {
	return func(f *AuthFlow) {
		if gen != nil {
			f.otp = gen
		}
	}
}

func WithTokenService(tokens TokenService) AuthFlowOption {
	return func(f *AuthFlow) {
		if tokens != nil {
			f.tokens = tokens
		}
	}
}

func WithClock(now func() time.Time) AuthFlowOption {
	return func(f *AuthFlow) {
		if now != nil {
			f.now = now
		}
	}
}

// NewAuthFlow wires the flow from configuration. Missing password or
// signing keys fail here, at startup, never per request.
func NewAuthFlow(repo RepositoryManager, cfg Config, notifier Notifier, opts ...AuthFlowOption) (*AuthFlow, error) {
	if repo == nil {
		return nil, goerrors.New("repository manager is required", goerrors.CategoryInternal)
	}

	if notifier == nil {
		return nil, goerrors.New("notifier is required", goerrors.CategoryInternal)
	}

	hasher, err := NewPasswordHasher(cfg.GetPasswordKey())
	if err != nil {
		return nil, err
	}

	tokens, err := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	flow := &AuthFlow{
		repo:     repo,
		hasher:   hasher,
		otp:      NewOTPGenerator(),
		limiter:  NewRateLimiter(),
		tokens:   tokens,
		notifier: notifier,
		logger:   defLogger{},
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(flow)
		}
	}

	return flow, nil
}

// TokenService returns the TokenService instance used by this flow
func (f *AuthFlow) TokenService() TokenService {
	return f.tokens
}

// Signup creates the credential and its profile as one persistence unit.
// Validation failures happen before any store write.
func (f *AuthFlow) Signup(ctx context.Context, input SignupInput) (*UserProfile, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	if email == "" || input.Password == "" || input.PasswordConfirmation == "" || username == "" {
		return nil, ErrFieldsRequired
	}

	if input.Password != input.PasswordConfirmation {
		return nil, ErrPasswordMismatch
	}

	if _, err := f.repo.Credentials().GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsRecordNotFound(err) {
		f.logger.Error("Signup credential lookup failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing credential")
	}

	salt, err := f.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}

	credential := &Credential{
		Email:        email,
		PasswordHash: f.hasher.Hash(input.Password, salt),
		PasswordSalt: salt,
	}

	user := &UserProfile{
		Email:    email,
		Username: username,
		Role:     RoleUser,
	}

	err = f.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := f.repo.Credentials().CreateTx(ctx, tx, credential); err != nil {
			return err
		}

		created, err := f.repo.Users().RegisterTx(ctx, tx, user)
		if err != nil {
			return err
		}

		user = created
		return nil
	})

	if err != nil {
		f.logger.Error("Signup transaction failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create user")
	}

	f.logger.Info("Signup created account", "email", email)
	return user, nil
}

// Login runs phase one: password verification followed by OTP issuance
// and dispatch. The returned state reports how far the attempt got. One
// generic rejection covers unknown email and wrong password so responses
// cannot be used to probe for accounts.
func (f *AuthFlow) Login(ctx context.Context, email, password string) (LoginState, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return StateRejected, ErrFieldsRequired
	}

	credential, err := f.repo.Credentials().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return StateRejected, ErrInvalidCredentials
		}
		f.logger.Error("Login credential lookup failed", "error", err)
		return StateRejected, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve credential")
	}

	if !f.hasher.Verify(password, credential.PasswordSalt, credential.PasswordHash) {
		return StateRejected, ErrInvalidCredentials
	}

	// a refused admission consumes no attempt, so backing off and
	// retrying after the window behaves as expected
	if !f.limiter.Admit(email) {
		f.logger.Warn("Login OTP issuance rate limited", "email", email)
		return StatePasswordVerified, ErrTooManyRequests
	}

	code, expiry, err := f.otp.Generate()
	if err != nil {
		return StatePasswordVerified, err
	}

	if err := f.repo.Credentials().SetOTP(ctx, email, code, expiry); err != nil {
		f.logger.Error("Login failed to persist one time code", "error", err)
		return StatePasswordVerified, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist one time code")
	}

	body := otpEmailBody(code, f.otp.TTL())
	if err := f.notifier.Send(ctx, email, otpEmailSubject, body); err != nil {
		// the stored code stays valid until expiry; no rollback
		f.logger.Error("Login OTP dispatch failed", "email", email, "error", err)
		return StateOtpPending, ErrOTPDispatchFailed
	}

	f.logger.Info("Login dispatched one time code", "email", email)
	return StateOtpPending, nil
}

// VerifyOTP runs phase two. Missing credential, absent or mismatched
// code, and expired code all collapse into one generic rejection. A
// successful verification clears the code before returning, so it can
// never be redeemed twice.
func (f *AuthFlow) VerifyOTP(ctx context.Context, email, submitted string) (*AuthSession, error) {
	email = normalizeEmail(email)

	if email == "" || submitted == "" {
		return nil, ErrInvalidOTP
	}

	credential, err := f.repo.Credentials().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidOTP
		}
		f.logger.Error("VerifyOTP credential lookup failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve credential")
	}

	code, expiry, ok := credential.PendingOTP()
	if !ok {
		return nil, ErrInvalidOTP
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(submitted)) != 1 {
		return nil, ErrInvalidOTP
	}

	if f.now().After(expiry) {
		return nil, ErrInvalidOTP
	}

	if err := f.repo.Credentials().ClearOTP(ctx, email); err != nil {
		f.logger.Error("VerifyOTP failed to clear one time code", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear one time code")
	}

	user, err := f.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		f.logger.Error("VerifyOTP profile lookup failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}

	token, err := f.tokens.Issue(user)
	if err != nil {
		f.logger.Error("VerifyOTP token issuance failed", "error", err)
		return nil, err
	}

	f.logger.Info("VerifyOTP authenticated", "email", email)
	return &AuthSession{Token: token, User: user}, nil
}

// SessionFromToken validates a previously issued token and returns its
// session view.
func (f *AuthFlow) SessionFromToken(raw string) (Session, error) {
	claims, err := f.tokens.Validate(raw)
	if err != nil {
		f.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		f.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
