package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes that map to domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeLockNotAvailable    = "55P03"
)

// ErrLockTimeout indicates a statement gave up waiting for a row lock.
var ErrLockTimeout = errors.New("row lock timed out")

// MapError translates database errors to domain errors.
//
//	sql.ErrNoRows                 → notFoundErr
//	23503 foreign_key_violation   → notFoundErr (the referenced row is gone)
//	23505 unique_violation        → duplicateErr
//	55P03 lock_not_available      → ErrLockTimeout
//
// Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return duplicateErr
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", notFoundErr, pgErr.ConstraintName)
	case codeLockNotAvailable:
		return fmt.Errorf("%w: %w", ErrLockTimeout, err)
	default:
		return err
	}
}
