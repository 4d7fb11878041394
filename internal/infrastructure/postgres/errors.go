package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/restaurant-user-service/internal/domain/repository"
)

// Postgres error codes:
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	errDuplicate = "23505" // unique_violation
	errFK        = "23503" // foreign_key_violation
	errInvalid   = "22P02" // invalid_text_representation
)

// handleError translates driver errors into repository sentinels, keeping
// the original error in the chain.
func handleError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, errors.Join(repository.ErrNotFound, err))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case errDuplicate:
			return fmt.Errorf("%s: %w (constraint %s)", op, errors.Join(repository.ErrConflict, err), pgErr.ConstraintName)
		case errFK, errInvalid:
			// a malformed or dangling id cannot reference any stored user
			return fmt.Errorf("%s: %w", op, errors.Join(repository.ErrNotFound, err))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
