package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Users interface {
	repository.Repository[*User]

	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	FindByProviderIdentity(ctx context.Context, providerID string, kind ProviderKind) (*User, error)
	FindByProviderIdentityTx(ctx context.Context, tx bun.IDB, providerID string, kind ProviderKind) (*User, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	ExistsByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (bool, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
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

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Where("?TableAlias.deleted_at IS NULL").
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

func (a *users) FindByProviderIdentity(ctx context.Context, providerID string, kind ProviderKind) (*User, error) {
	return a.FindByProviderIdentityTx(ctx, a.db, providerID, kind)
}

func (a *users) FindByProviderIdentityTx(ctx context.Context, tx bun.IDB, providerID string, kind ProviderKind) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.provider_id = ?", providerID).
		Where("?TableAlias.provider_kind = ?", string(kind)).
		Where("?TableAlias.deleted_at IS NULL").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"provider_id":   providerID,
					"provider_kind": string(kind),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return a.ExistsByNicknameTx(ctx, a.db, nickname)
}

func (a *users) ExistsByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (bool, error) {
	count, err := tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.nickname = ?", nickname).
		Where("?TableAlias.deleted_at IS NULL").
		Count(ctx)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx inserts a new account and translates unique violations
// into the conflict taxonomy. Concurrent signups racing on the same
// email or nickname both reach the insert, the constraint decides.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	record, err := a.CreateTx(ctx, tx, user)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, a.conflictFor(err, user)
		}
		return nil, err
	}
	return record, nil
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}

func (a *users) conflictFor(err error, user *User) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "nickname") {
		clone := ErrNicknameExists.Clone()
		clone.Source = err
		return clone.WithMetadata(map[string]any{
			"nickname": user.Nickname,
		})
	}

	clone := ErrAccountExists.Clone()
	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"email": user.Email,
	})
}

// IsUniqueViolation matches driver specific unique constraint errors
// by message, covering postgres and sqlite wording.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique_violation")
}

func prepareUserDefaults(user *User) {
	if user == nil {
		return
	}

	if user.ID == uuid.Nil {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		} else {
			user.ID = uuid.New()
		}
	}

	if user.AccountType == "" {
		user.AccountType = AccountNormal
	}

	if user.ProviderKind == "" {
		user.ProviderKind = ProviderNone
	}

	now := time.Now()
	if user.CreatedAt == nil {
		user.CreatedAt = &now
	}
	if user.UpdatedAt == nil {
		user.UpdatedAt = &now
	}
}
