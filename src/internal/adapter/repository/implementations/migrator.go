package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/api-sage/paper-trading-engine/src/internal/logger"
)

// RunMigrations applies every *.sql file in migrationsDir that is not yet
// recorded in schema_migrations, in file name order, each in its own
// transaction. It returns the versions applied by this call.
func RunMigrations(ctx context.Context, dsn, migrationsDir string) ([]string, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := ensureSchemaMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	files, err := migrationFiles(migrationsDir)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(files))
	for _, file := range files {
		done, err := isApplied(ctx, db, file)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		if err := applyMigration(ctx, db, migrationsDir, file); err != nil {
			logger.Error("migration failed", err, logger.Fields{
				"version": file,
			})
			return applied, err
		}

		logger.Info("migration applied", logger.Fields{
			"version": file,
		})
		applied = append(applied, file)
	}

	return applied, nil
}

func applyMigration(ctx context.Context, db *sql.DB, migrationsDir string, file string) (err error) {
	sqlBytes, err := os.ReadFile(filepath.Join(migrationsDir, file))
	if err != nil {
		return fmt.Errorf("read migration %q: %w", file, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for migration %q: %w", file, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("execute migration %q: %w", file, err)
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES ($1)`, file); err != nil {
		return fmt.Errorf("record migration %q: %w", file, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %q: %w", file, err)
	}

	return nil
}

func ensureSchemaMigrationsTable(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	return nil
}

func migrationFiles(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory %q: %w", migrationsDir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".sql") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}

func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = $1`, version).Scan(&count); err != nil {
		return false, fmt.Errorf("check migration %q status: %w", version, err)
	}

	return count > 0, nil
}
