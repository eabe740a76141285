package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-otp"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

func newRouterContext(t *testing.T) *router.MockContext {
	t.Helper()
	return router.NewMockContext()
}

// MockConfig implements auth.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetPasswordKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetSigningMethod() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenLookup() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetPasswordKey").Return("test-password-key")
	mockConfig.On("GetTokenExpiration").Return(24)
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	mockConfig.On("GetContextKey").Return("user")
	mockConfig.On("GetTokenLookup").Return("header:Authorization")
	mockConfig.On("GetAuthScheme").Return("Bearer")
	return mockConfig
}

// MockNotifier implements auth.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockTokenService implements auth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(user *auth.UserProfile) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *auth.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (auth.AuthClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.AuthClaims), args.Error(1)
}

// MockCredentials implements auth.Credentials
type MockCredentials struct {
	mock.Mock
}

func (m *MockCredentials) GetByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Credential), args.Error(1)
}

func (m *MockCredentials) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.Credential, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Credential), args.Error(1)
}

func (m *MockCredentials) Create(ctx context.Context, record *auth.Credential) (*auth.Credential, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Credential), args.Error(1)
}

func (m *MockCredentials) CreateTx(ctx context.Context, tx bun.IDB, record *auth.Credential) (*auth.Credential, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Credential), args.Error(1)
}

func (m *MockCredentials) SetOTP(ctx context.Context, email, otp string, expiry time.Time) error {
	args := m.Called(ctx, email, otp, expiry)
	return args.Error(0)
}

func (m *MockCredentials) SetOTPTx(ctx context.Context, tx bun.IDB, email, otp string, expiry time.Time) error {
	args := m.Called(ctx, tx, email, otp, expiry)
	return args.Error(0)
}

func (m *MockCredentials) ClearOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockCredentials) ClearOTPTx(ctx context.Context, tx bun.IDB, email string) error {
	args := m.Called(ctx, tx, email)
	return args.Error(0)
}

// MockUsers implements auth.Users. The embedded interface covers the
// generic repository surface the tests never touch.
type MockUsers struct {
	mock.Mock
	auth.Users
}

func (m *MockUsers) Register(ctx context.Context, user *auth.UserProfile) (*auth.UserProfile, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserProfile), args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.UserProfile) (*auth.UserProfile, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserProfile), args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*auth.UserProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserProfile), args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.UserProfile, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserProfile), args.Error(1)
}

// MockRepositoryManager implements auth.RepositoryManager. RunInTx
// executes the callback with a zero transaction so the Tx variants of
// the mocked repositories get exercised.
type MockRepositoryManager struct {
	mock.Mock
	credentials *MockCredentials
	users       *MockUsers
}

func newMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		credentials: new(MockCredentials),
		users:       new(MockUsers),
	}
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Credentials() auth.Credentials {
	return m.credentials
}

func (m *MockRepositoryManager) Users() auth.Users {
	return m.users
}
