package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrForeignKeyViolation is returned when a statement references a missing
	// row or deletes a row that is still referenced.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrUniqueViolation is returned when a unique constraint is violated.
	ErrUniqueViolation = errors.New("duplicate key value")

	// ErrCheckViolation is returned when a CHECK constraint rejects a value.
	ErrCheckViolation = errors.New("check constraint violation")

	// ErrConnection is returned when the store cannot be reached.
	ErrConnection = errors.New("store connection lost")
)

// StatementError is a failed statement together with the driver's error.
type StatementError struct {
	Statement string
	Kind      error
	Err       error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Err.Error()
}

// Unwrap exposes both the classification and the driver error to errors.Is/As.
func (e *StatementError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Err}
}

func wrap(statement string, err error) error {
	return &StatementError{
		Statement: strings.Join(strings.Fields(statement), " "),
		Kind:      classify(err),
		Err:       err,
	}
}

// classify maps driver-specific constraint errors onto the sentinels above.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ErrForeignKeyViolation
		case "23505":
			return ErrUniqueViolation
		case "23514":
			return ErrCheckViolation
		case "08000", "08003", "08006", "57P01":
			return ErrConnection
		}
		return nil
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrForeignKeyViolation
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrUniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return ErrCheckViolation
		case sqlite3.SQLITE_CONSTRAINT:
			return classifyMessage(liteErr.Error())
		}
		return nil
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) {
		return ErrConnection
	}
	return nil
}

// classifyMessage handles drivers that only report the primary result code.
func classifyMessage(msg string) error {
	switch {
	case strings.Contains(msg, "FOREIGN KEY"):
		return ErrForeignKeyViolation
	case strings.Contains(msg, "UNIQUE"):
		return ErrUniqueViolation
	case strings.Contains(msg, "CHECK"):
		return ErrCheckViolation
	}
	return nil
}
