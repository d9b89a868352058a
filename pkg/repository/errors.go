package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres unique_violation.
const pgDuplicateKeyCode = "23505"

// MapError translates low-level database errors into the caller's domain
// sentinels: sql.ErrNoRows becomes notFoundErr and a Postgres unique
// violation becomes duplicateErr (the notes repository maps filename
// collisions this way). Anything else passes through unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKeyCode {
		return duplicateErr
	}

	return err
}
