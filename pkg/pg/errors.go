package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidConfig     = errors.New("pg: invalid connection config")
	ErrConnectFailed     = errors.New("pg: failed to connect")
	ErrMigrateFailed     = errors.New("pg: failed to apply migrations")
	ErrHealthcheckFailed = errors.New("pg: healthcheck failed")
)

// IsNotFound reports whether err is pgx.ErrNoRows, the pgx signal for an
// empty point read.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports a unique-constraint violation (SQLSTATE 23505).
// The membership schema relies on a partial unique index to enforce at most
// one active membership per (principal, tenant); this helper classifies
// races against it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
