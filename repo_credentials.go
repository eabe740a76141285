package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

var setCredentialOTPSQL = `UPDATE "credentials" AS "cred"
SET
	"otp" = ?,
	"otp_expiry" = ?,
	"updated_at" = current_timestamp
WHERE
	"cred"."email" = ?;`

var clearCredentialOTPSQL = `UPDATE "credentials" AS "cred"
SET
	"otp" = NULL,
	"otp_expiry" = NULL,
	"updated_at" = current_timestamp
WHERE
	"cred"."email" = ?;`

// Credentials manages the secret material rows. The email is the natural
// key, so the generic uuid keyed repository does not fit; queries go
// through bun directly.
type Credentials interface {
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Credential, error)
	Create(ctx context.Context, record *Credential) (*Credential, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Credential) (*Credential, error)

	// SetOTP and ClearOTP update both columns in one statement so the
	// both-or-neither invariant holds even under concurrent logins;
	// concurrent writers are last-writer-wins.
	SetOTP(ctx context.Context, email, otp string, expiry time.Time) error
	SetOTPTx(ctx context.Context, tx bun.IDB, email, otp string, expiry time.Time) error
	ClearOTP(ctx context.Context, email string) error
	ClearOTPTx(ctx context.Context, tx bun.IDB, email string) error
}

type credentials struct {
	db *bun.DB
}

var _ Credentials = (*credentials)(nil)

func NewCredentialsRepository(db *bun.DB) Credentials {
	return &credentials{db: db}
}

func (c *credentials) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	return c.GetByEmailTx(ctx, c.db, email)
}

func (c *credentials) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Credential, error) {
	record := &Credential{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (c *credentials) Create(ctx context.Context, record *Credential) (*Credential, error) {
	return c.CreateTx(ctx, c.db, record)
}

func (c *credentials) CreateTx(ctx context.Context, tx bun.IDB, record *Credential) (*Credential, error) {
	if record == nil {
		return nil, errors.New("credential must not be nil", errors.CategoryInternal)
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (c *credentials) SetOTP(ctx context.Context, email, otp string, expiry time.Time) error {
	return c.SetOTPTx(ctx, c.db, email, otp, expiry)
}

func (c *credentials) SetOTPTx(ctx context.Context, tx bun.IDB, email, otp string, expiry time.Time) error {
	res, err := tx.NewRaw(setCredentialOTPSQL, otp, expiry, email).Exec(ctx)
	if err != nil {
		return err
	}

	return ensureCredentialTouched(res, email)
}

func (c *credentials) ClearOTP(ctx context.Context, email string) error {
	return c.ClearOTPTx(ctx, c.db, email)
}

func (c *credentials) ClearOTPTx(ctx context.Context, tx bun.IDB, email string) error {
	res, err := tx.NewRaw(clearCredentialOTPSQL, email).Exec(ctx)
	if err != nil {
		return err
	}

	return ensureCredentialTouched(res, email)
}

func ensureCredentialTouched(res sqlResult, email string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		// some drivers cannot report affected rows; treat as success
		return nil
	}

	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"email": email,
			})
	}

	return nil
}

type sqlResult interface {
	RowsAffected() (int64, error)
}
