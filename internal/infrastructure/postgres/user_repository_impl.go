package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	"github.com/oksasatya/restaurant-user-service/internal/domain/repository"
)

const selectAggregate = `
	SELECT u.id::text, u.name, u.user_identification, u.email, u.profile, u.last_update,
	       a.street, a.number, a.complement, a.neighborhood, a.city, a.state, a.country, a.postal_code, a.last_update,
	       c.username, c.password_hash, c.last_update
	FROM users u
	LEFT JOIN addresses a ON a.user_id = u.id
	LEFT JOIN user_credentials c ON c.user_id = u.id
`

const upsertAddress = `
	INSERT INTO addresses (user_id, street, number, complement, neighborhood, city, state, country, postal_code, last_update)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (user_id) DO UPDATE SET
		street = EXCLUDED.street,
		number = EXCLUDED.number,
		complement = EXCLUDED.complement,
		neighborhood = EXCLUDED.neighborhood,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		country = EXCLUDED.country,
		postal_code = EXCLUDED.postal_code,
		last_update = EXCLUDED.last_update
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one row of selectAggregate. The address and credentials
// columns come from LEFT JOINs and are NULL when the owned row is missing.
func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u       entity.User
		profile string

		street, complement, neighborhood, city, state, country, postalCode *string
		number                                                             *int32
		addressUpdate                                                      *time.Time

		username, passwordHash *string
		credentialsUpdate      *time.Time
	)
	if err := row.Scan(
		&u.ID, &u.Name, &u.UserIdentification, &u.Email, &profile, &u.LastUpdate,
		&street, &number, &complement, &neighborhood, &city, &state, &country, &postalCode, &addressUpdate,
		&username, &passwordHash, &credentialsUpdate,
	); err != nil {
		return nil, err
	}
	u.Profile = entity.Profile(profile)

	if street != nil {
		u.Address = &entity.Address{
			Street:       *street,
			Number:       int(deref(number)),
			Complement:   deref(complement),
			Neighborhood: deref(neighborhood),
			City:         deref(city),
			State:        deref(state),
			Country:      deref(country),
			PostalCode:   deref(postalCode),
			LastUpdate:   deref(addressUpdate),
		}
	}
	if username != nil {
		u.Credentials = &entity.Credentials{
			UserID:       u.ID,
			Username:     *username,
			PasswordHash: deref(passwordHash),
			LastUpdate:   deref(credentialsUpdate),
		}
	}
	return &u, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// escapeLike escapes LIKE wildcards so term is matched literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func (r *UserRepository) findOne(ctx context.Context, op, where string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, selectAggregate+where, args...))
	if err != nil {
		return nil, handleError(op, err)
	}
	return u, nil
}

func (r *UserRepository) findMany(ctx context.Context, op, where string, args ...any) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, selectAggregate+where+" ORDER BY u.name, u.id", args...)
	if err != nil {
		return nil, handleError(op, err)
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, handleError(op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, handleError(op, err)
	}
	return users, nil
}

func (r *UserRepository) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, handleError(op, err)
	}
	return ok, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "find user by id", "WHERE u.id = $1", id)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	return r.findMany(ctx, "find all users", "")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "find user by email", "WHERE u.email = $1", email)
}

func (r *UserRepository) FindByUserIdentification(ctx context.Context, identification string) (*entity.User, error) {
	return r.findOne(ctx, "find user by identification", "WHERE u.user_identification = $1", identification)
}

func (r *UserRepository) FindByNameContaining(ctx context.Context, term string) ([]*entity.User, error) {
	return r.findMany(ctx, "find users by name", `WHERE u.name ILIKE '%' || $1 || '%'`, escapeLike(term))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "exists by email", `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) ExistsByUserIdentification(ctx context.Context, identification string) (bool, error) {
	return r.exists(ctx, "exists by identification", `SELECT EXISTS (SELECT 1 FROM users WHERE user_identification = $1)`, identification)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "exists by username", `SELECT EXISTS (SELECT 1 FROM user_credentials WHERE username = $1)`, username)
}

func (r *UserRepository) CreateWithOwnedEntities(ctx context.Context, u *entity.User) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (id, name, user_identification, email, profile, last_update)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, u.ID, u.Name, u.UserIdentification, u.Email, string(u.Profile), u.LastUpdate); err != nil {
			return err
		}
		if err := execUpsertAddress(ctx, tx, u.ID, u.Address); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO user_credentials (user_id, username, password_hash, last_update)
			VALUES ($1, $2, $3, $4)
		`, u.ID, u.Credentials.Username, u.Credentials.PasswordHash, u.Credentials.LastUpdate)
		return err
	})
	return handleError("create user", err)
}

func (r *UserRepository) UpdateWithAddress(ctx context.Context, u *entity.User) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users
			SET name = $2, user_identification = $3, email = $4, profile = $5, last_update = $6
			WHERE id = $1
		`, u.ID, u.Name, u.UserIdentification, u.Email, string(u.Profile), u.LastUpdate)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if u.Address == nil {
			return nil
		}
		return execUpsertAddress(ctx, tx, u.ID, u.Address)
	})
	return handleError("update user", err)
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	// addresses and user_credentials rows go with it (ON DELETE CASCADE)
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return handleError("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return handleError("delete user", pgx.ErrNoRows)
	}
	return nil
}

func execUpsertAddress(ctx context.Context, tx pgx.Tx, userID string, a *entity.Address) error {
	_, err := tx.Exec(ctx, upsertAddress,
		userID, a.Street, a.Number, a.Complement, a.Neighborhood, a.City, a.State, a.Country, a.PostalCode, a.LastUpdate)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
