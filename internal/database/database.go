// Package database opens the single store connection used by a session and
// brings its schema up to date.
package database

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/employee-tracker/internal/config"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

var retryDelay = time.Second

// Open connects to the configured store, retrying up to cfg.ConnectAttempts
// times. The pool is capped at one connection: a session is one operator on
// one connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logLevel slog.Level) (*gorm.DB, error) {
	var lastErr error

	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		db, err := gorm.Open(dialector(cfg), &gorm.Config{
			Logger: newGormLogger(os.Stderr, logLevel),
		})
		if err == nil {
			err = configure(ctx, db)
			if err == nil {
				return db, nil
			}
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
		lastErr = err
		slog.Debug("database not ready", slog.Int("attempt", attempt), slog.Any("error", err))

		if attempt == cfg.ConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.ConnectAttempts, lastErr)
}

func dialector(cfg config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.Dialector{DriverName: "sqlite", DSN: cfg.DSN()}
	}
	return postgres.Open(cfg.DSN())
}

func configure(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return sqlDB.PingContext(ctx)
}

// newGormLogger writes gorm's own log to w; stdout is reserved for the menu.
func newGormLogger(w io.Writer, level slog.Level) gormlogger.Interface {
	return gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// gormLogLevel keeps gorm silent unless debug logging is on.
func gormLogLevel(level slog.Level) gormlogger.LogLevel {
	if level <= slog.LevelDebug {
		return gormlogger.Info
	}
	return gormlogger.Silent
}

// Migrate applies the embedded migrations for the connection's dialect.
func Migrate(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	dialect, dir := goose.DialectPostgres, "migrations/postgres"
	if db.Dialector.Name() == "sqlite" {
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	}

	migrations, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, sqlDB, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", slog.String("source", r.Source.Path), slog.Duration("duration", r.Duration))
	}
	return nil
}
