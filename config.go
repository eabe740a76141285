package auth

import (
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// SimpleConfig is a plain struct implementation of Config.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	PasswordKey     string
	ContextKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	TokenLookup     string
	AuthScheme      string
}

func (c *SimpleConfig) GetSigningKey() string   { return c.SigningKey }
func (c *SimpleConfig) GetPasswordKey() string  { return c.PasswordKey }
func (c *SimpleConfig) GetContextKey() string   { return c.ContextKey }
func (c *SimpleConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c *SimpleConfig) GetIssuer() string       { return c.Issuer }
func (c *SimpleConfig) GetTokenLookup() string  { return c.TokenLookup }
func (c *SimpleConfig) GetAuthScheme() string   { return c.AuthScheme }

func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return jwt.SigningMethodHS512.Alg()
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetAudience() []string {
	return c.Audience
}

func (c *SimpleConfig) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.SigningKey, validation.Required),
		validation.Field(&c.PasswordKey, validation.Required),
		validation.Field(&c.TokenExpiration, validation.Min(1)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid auth configuration")
	}
	return nil
}

// NewConfigFromEnv builds a SimpleConfig from AUTH_* environment
// variables and validates it. Unset optional values fall back to
// defaults; missing keys are a startup error.
func NewConfigFromEnv() (*SimpleConfig, error) {
	cfg := &SimpleConfig{
		SigningKey:      os.Getenv("AUTH_SIGNING_KEY"),
		PasswordKey:     os.Getenv("AUTH_PASSWORD_KEY"),
		ContextKey:      envOr("AUTH_CONTEXT_KEY", "user"),
		TokenExpiration: envIntOr("AUTH_TOKEN_EXPIRATION", DefaultTokenExpirationHours),
		Issuer:          os.Getenv("AUTH_ISSUER"),
		TokenLookup:     envOr("AUTH_TOKEN_LOOKUP", "header:Authorization"),
		AuthScheme:      envOr("AUTH_SCHEME", "Bearer"),
	}

	if audience := os.Getenv("AUTH_AUDIENCE"); audience != "" {
		cfg.Audience = []string{audience}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SMTPConfig holds mail delivery settings for SMTPNotifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

func (c SMTPConfig) GetHost() string     { return c.Host }
func (c SMTPConfig) GetPort() int        { return c.Port }
func (c SMTPConfig) GetUsername() string { return c.Username }
func (c SMTPConfig) GetPassword() string { return c.Password }
func (c SMTPConfig) GetSender() string   { return c.Sender }

func (c SMTPConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required, is.Host),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Sender, validation.Required, is.Email),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid smtp configuration")
	}
	return nil
}

// NewSMTPConfigFromEnv reads SMTP_* environment variables.
func NewSMTPConfigFromEnv() (SMTPConfig, error) {
	cfg := SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envIntOr("SMTP_PORT", 587),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		Sender:   os.Getenv("SMTP_SENDER"),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return parsed
}
