package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUsernameTaken = errors.New("user with this username already exists")
	ErrEmailTaken    = errors.New("user with this email already exists")
)

const uniqueViolation = "23505"

// uniqueConstraint returns the name of the violated unique constraint, if any
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
