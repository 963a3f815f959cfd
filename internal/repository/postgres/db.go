// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	xerrors "callcenter-service/internal/pkg/errors"
)

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.pool.Begin(ctx)
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Postgres error codes we translate into the application taxonomy.
const (
	codeUniqueViolation    = "23505"
	codeLockNotAvailable   = "55P03"
	codeSerializationFail  = "40001"
	codeDeadlockDetected   = "40P01"
	codeForeignKeyViolated = "23503"
)

// translateError maps driver-level failures onto the sentinel taxonomy so the
// services never see pgconn types. Unique violations keep the constraint name
// so callers can report the offending field.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return xerrors.Wrap(xerrors.ErrConflict, conflictField(pgErr.ConstraintName))
	case codeLockNotAvailable, codeSerializationFail, codeDeadlockDetected:
		return xerrors.Wrap(xerrors.ErrTransient, "commit blocked by concurrent transaction")
	case codeForeignKeyViolated:
		return xerrors.Wrap(xerrors.ErrNotFound, "referenced row missing")
	}
	return err
}

// conflictField derives a field-specific message from a unique constraint
// name like "agents_email_key"; falls back to a generic duplicate message.
func conflictField(constraint string) string {
	switch constraint {
	case "agents_employee_id_key":
		return "employee_id already registered"
	case "agents_email_key", "customers_email_key":
		return "email already registered"
	case "agents_phone_number_key", "customers_phone_number_key":
		return "phone already registered"
	case "inquiries_customer_id_referral_nr_key":
		return "inquiry already exists for customer and referral"
	case "customers_customer_reference_key":
		return "customer reference already in use"
	}
	return "duplicate entry"
}
