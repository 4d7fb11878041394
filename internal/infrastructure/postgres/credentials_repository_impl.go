package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	"github.com/oksasatya/restaurant-user-service/internal/domain/repository"
)

type CredentialsRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialsRepository(pool *pgxpool.Pool) *CredentialsRepository {
	return &CredentialsRepository{pool: pool}
}

func (r *CredentialsRepository) FindByUsername(ctx context.Context, username string) (*entity.Credentials, error) {
	c := &entity.Credentials{}
	row := r.pool.QueryRow(ctx, `
		SELECT user_id::text, username, password_hash, last_update
		FROM user_credentials
		WHERE username = $1
	`, username)
	if err := row.Scan(&c.UserID, &c.Username, &c.PasswordHash, &c.LastUpdate); err != nil {
		return nil, handleError("find credentials by username", err)
	}
	return c, nil
}

func (r *CredentialsRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_credentials WHERE username = $1)`, username).Scan(&ok)
	if err != nil {
		return false, handleError("exists by username", err)
	}
	return ok, nil
}

func (r *CredentialsRepository) Save(ctx context.Context, c *entity.Credentials) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE user_credentials
		SET username = $2, password_hash = $3, last_update = $4
		WHERE user_id = $1
	`, c.UserID, c.Username, c.PasswordHash, c.LastUpdate)
	if err != nil {
		return handleError("save credentials", err)
	}
	if tag.RowsAffected() == 0 {
		return handleError("save credentials", pgx.ErrNoRows)
	}
	return nil
}

var _ repository.CredentialsRepository = (*CredentialsRepository)(nil)
