// Package repositories contains the SQL implementations of the domain
// persistence ports.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/laborguard/complaint-service/pkg/errors"
)

// queryExecutor abstracts sql.DB and sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// toJSONB marshals v for a jsonb column.
func toJSONB(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode jsonb value")
	}
	return b, nil
}

// fromJSONB unmarshals a jsonb column into dst.  NULL and empty values leave
// dst untouched.
func fromJSONB(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode jsonb value")
	}
	return nil
}
