package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Errors holds the domain errors a repository translates database failures into.
// Nil fields leave the matching database error untouched.
type Errors struct {
	NotFound  error
	Duplicate error
	Reference error
}

// Map translates database errors to domain errors.
// sql.ErrNoRows maps to NotFound, PostgreSQL unique violations (23505) to Duplicate,
// and foreign key violations (23503) to Reference. Other errors are returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && e.Duplicate != nil:
			return e.Duplicate
		case pgErr.Code == pgForeignKeyViolation && e.Reference != nil:
			return e.Reference
		}
	}

	return err
}
