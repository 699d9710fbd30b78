// Package store is the single statement-execution primitive every read and
// write goes through. Statements use positional "?" placeholders, which gorm
// rewrites for the active dialect; values are never interpolated.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Row maps a column name to its value.
type Row map[string]any

// Result is an ordered row set. Columns keeps the statement's column order,
// which a map cannot.
type Result struct {
	Columns []string
	Rows    []Row
}

// Store executes parameterized statements on one connection.
type Store struct {
	db *gorm.DB
}

// New wraps an open connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Query runs a statement that returns rows.
func (s *Store) Query(ctx context.Context, statement string, args ...any) (*Result, error) {
	rows, err := s.db.WithContext(ctx).Raw(statement, args...).Rows()
	if err != nil {
		return nil, wrap(statement, err)
	}
	defer rows.Close()

	result, err := collect(rows)
	if err != nil {
		return nil, wrap(statement, err)
	}
	return result, nil
}

// Exec runs a statement that returns no rows and reports the rows affected.
func (s *Store) Exec(ctx context.Context, statement string, args ...any) (int64, error) {
	res := s.db.WithContext(ctx).Exec(statement, args...)
	if res.Error != nil {
		return 0, wrap(statement, res.Error)
	}
	return res.RowsAffected, nil
}

// Scan runs a statement and scans the rows into dest (a pointer to a struct
// or slice of structs) by column name.
func (s *Store) Scan(ctx context.Context, dest any, statement string, args ...any) error {
	if err := s.db.WithContext(ctx).Raw(statement, args...).Scan(dest).Error; err != nil {
		return wrap(statement, err)
	}
	return nil
}

// Transaction runs fn with a Store bound to a single transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Close releases the connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func collect(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

// Empty reports whether the result has no rows.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Values returns row i in column order.
func (r *Result) Values(i int) []any {
	out := make([]any, len(r.Columns))
	for j, col := range r.Columns {
		out[j] = r.Rows[i][col]
	}
	return out
}

// Ping checks that the connection is still usable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// IsConnection reports whether err means the connection itself is gone.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection) || errors.Is(err, sql.ErrConnDone)
}
