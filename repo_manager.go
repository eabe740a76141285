package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories. RunInTx is what makes
// signup a both-or-neither unit: the credential and its profile are
// created inside one transaction.
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Credentials() Credentials
	Users() Users
}

type mngr struct {
	db          *bun.DB
	credentials Credentials
	users       Users
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:          db,
		credentials: NewCredentialsRepository(db),
		users:       NewUsersRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.credentials == nil {
		return errors.New("repository credentials should be initialized")
	}

	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Credentials() Credentials {
	return m.credentials
}

func (m mngr) Users() Users {
	return m.users
}
