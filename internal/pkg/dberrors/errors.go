package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes inspected by the repositories
const (
	CodeUniqueViolation = "23505"
	CodeCheckViolation  = "23514"
)

// IsDuplicateConstraintError checks if the error is a unique violation on the given constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsCheckViolation reports whether a CHECK constraint rejected the row.
func IsCheckViolation(err error) bool {
	return hasCode(err, CodeCheckViolation)
}

// IsNoRows reports whether a single-row query found nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
