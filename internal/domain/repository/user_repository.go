package repository

import (
	"context"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
)

// UserRepository defines the persistence operations over the user aggregate
// (the user with its owned address and credentials).
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUserIdentification(ctx context.Context, identification string) (*entity.User, error)
	// FindByNameContaining matches term as a case-insensitive substring of the name.
	FindByNameContaining(ctx context.Context, term string) ([]*entity.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUserIdentification(ctx context.Context, identification string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// CreateWithOwnedEntities persists the user, its address and its
	// credentials as one atomic write. u.Address and u.Credentials must be set.
	CreateWithOwnedEntities(ctx context.Context, u *entity.User) error
	// UpdateWithAddress saves the user's own fields and upserts its address in
	// one atomic write. Credentials are never written.
	UpdateWithAddress(ctx context.Context, u *entity.User) error
	// DeleteByID removes the user together with its address and credentials.
	DeleteByID(ctx context.Context, id string) error
}

// CredentialsRepository operates on credentials records independently of
// the rest of the aggregate.
type CredentialsRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Credentials, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, c *entity.Credentials) error
}
