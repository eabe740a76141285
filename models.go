package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the only role assigned at signup; elevation happens
	// out of band, directly against the users table.
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

const (
	// PasswordSaltLength is the size of the per account random salt,
	// generated once at signup and immutable thereafter.
	PasswordSaltLength = 16
	// PasswordHashLength is the derived key size.
	PasswordHashLength = 32
)

// Credential stores the secret material for one account, keyed by email.
// The email is a natural key, picked deliberately over a surrogate: a
// credential has no identity beyond the address it protects.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`
	Email         string     `bun:"email,pk" json:"email,omitempty"`
	PasswordHash  []byte     `bun:"password_hash,notnull,type:blob" json:"-"`
	PasswordSalt  []byte     `bun:"password_salt,notnull,type:blob" json:"-"`
	OTP           *string    `bun:"otp" json:"-"`
	OTPExpiry     *time.Time `bun:"otp_expiry,nullzero" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PendingOTP returns the stored code and its expiry. The two columns are
// set and cleared together; a row where only one is present is treated as
// having no pending code.
func (c *Credential) PendingOTP() (string, time.Time, bool) {
	if c == nil || c.OTP == nil || c.OTPExpiry == nil {
		return "", time.Time{}, false
	}
	return *c.OTP, *c.OTPExpiry, true
}

// UserProfile is the public account record, one per credential email,
// created in the same transaction as the credential.
type UserProfile struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	UserID        int64      `bun:"user_id,pk,autoincrement" json:"user_id,omitempty"`
	ID            uuid.UUID  `bun:"id,notnull,unique,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,notnull" json:"username,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureRole applies the signup default
func (u *UserProfile) EnsureRole() *UserProfile {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return u
}
