package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users manages UserProfile records
type Users interface {
	repository.Repository[*UserProfile]

	Register(ctx context.Context, user *UserProfile) (*UserProfile, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *UserProfile) (*UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*UserProfile, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*UserProfile, error)
}

type users struct {
	repository.Repository[*UserProfile]
	db *bun.DB
}

var (
	_ Users                               = (*users)(nil)
	_ repository.Repository[*UserProfile] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*UserProfile](db, repository.ModelHandlers[*UserProfile]{
		NewRecord: func() *UserProfile { return &UserProfile{} },
		GetID: func(u *UserProfile) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *UserProfile, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *UserProfile) (*UserProfile, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *UserProfile) (*UserProfile, error) {
	prepareProfileDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*UserProfile, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*UserProfile, error) {
	record := &UserProfile{}
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

func prepareProfileDefaults(record *UserProfile) {
	if record == nil {
		return
	}

	record.EnsureRole()

	if record.ID == uuid.Nil {
		if id, err := hashid.NewUUID(record.Email); err == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
	}
}
