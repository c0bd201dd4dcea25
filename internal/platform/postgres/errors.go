package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lsandoval/mnemo/internal/store"
)

// uniqueViolationCode is the PostgreSQL unique violation error code.
const uniqueViolationCode = "23505"

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// mapWriteError translates driver-level write errors into the store error
// taxonomy so callers never see pgconn details. Unique violations map to
// ErrDuplicate; anything else is wrapped in a StoreError.
func mapWriteError(err error, entity, operation, message string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", store.ErrDuplicate, entity)
	}
	return store.NewStoreError(entity, operation, message, err)
}
