// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the vidtube schema with golang-migrate.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. cmd/api runs [RunUp]
// against data/migrations before the HTTP server starts, so the users,
// videos, subscriptions and watch-history tables exist before any request.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// VersionTable records the applied vidtube migration version. A dedicated name
// lets the account schema share a database with other services.
const VersionTable = "vidtube_schema_migrations"

// ErrUnsupportedDSN is returned for connection strings golang-migrate cannot open.
var ErrUnsupportedDSN = errors.New("migration: DSN must be a postgres:// or postgresql:// URL")

// RunUp applies all pending UP migrations.
//
// Cancelling ctx asks golang-migrate to stop after the migration in flight.
//
// # Parameters
//   - ctx: Bounds the run.
//   - dsn: A postgres:// URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func RunUp(ctx context.Context, dsn string, migrationsPath string, logger *slog.Logger) error {
	databaseURL, err := DatabaseURL(dsn)
	if err != nil {
		return err
	}

	migrator, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			migrator.GracefulStop <- true
		case <-done:
		}
	}()

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return fmt.Errorf("migration: %s is dirty at version %d (manual intervention required)", VersionTable, currentVersion)
	}

	logger.Info("migration_started",
		slog.String("path", migrationsPath),
		slog.Int("current_version", int(currentVersion)),
	)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.Int("version", int(currentVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("migration: interrupted: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// DatabaseURL rewrites a postgres:// or postgresql:// URL to the pgx5:// form
// golang-migrate opens, pointing its version bookkeeping at [VersionTable].
// An x-migrations-table already present in dsn is kept.
func DatabaseURL(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, "postgres://")
	if !ok {
		rest, ok = strings.CutPrefix(dsn, "postgresql://")
	}
	if !ok {
		if strings.HasPrefix(dsn, "pgx5://") {
			rest = strings.TrimPrefix(dsn, "pgx5://")
		} else {
			return "", ErrUnsupportedDSN
		}
	}

	parsed, err := url.Parse("pgx5://" + rest)
	if err != nil {
		return "", fmt.Errorf("migration: invalid DSN: %w", err)
	}

	query := parsed.Query()
	if query.Get("x-migrations-table") == "" {
		query.Set("x-migrations-table", VersionTable)
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
