package application

import (
	"context"

	repo "github.com/oksasatya/restaurant-user-service/internal/domain/repository"
	"github.com/oksasatya/restaurant-user-service/pkg/apperror"
)

// UniquenessChecker looks for email, identification and username collisions
// before a write. The datastore's unique constraints remain the source of
// truth: a concurrent write can still slip between check and write.
type UniquenessChecker struct {
	Users       repo.UserRepository
	Credentials repo.CredentialsRepository
}

func NewUniquenessChecker(users repo.UserRepository, creds repo.CredentialsRepository) *UniquenessChecker {
	return &UniquenessChecker{Users: users, Credentials: creds}
}

func (c *UniquenessChecker) EmailTaken(ctx context.Context, email string) (bool, error) {
	ok, err := c.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, apperror.Internal("check email uniqueness", err)
	}
	return ok, nil
}

func (c *UniquenessChecker) IdentificationTaken(ctx context.Context, identification string) (bool, error) {
	ok, err := c.Users.ExistsByUserIdentification(ctx, identification)
	if err != nil {
		return false, apperror.Internal("check identification uniqueness", err)
	}
	return ok, nil
}

func (c *UniquenessChecker) UsernameTaken(ctx context.Context, username string) (bool, error) {
	ok, err := c.Credentials.ExistsByUsername(ctx, username)
	if err != nil {
		return false, apperror.Internal("check username uniqueness", err)
	}
	return ok, nil
}
