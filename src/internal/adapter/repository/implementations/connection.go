package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	_ "github.com/lib/pq"
)

const (
	maxOpenConns    = 30
	maxIdleConns    = 20
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 15 * time.Minute
)

// Open connects to Postgres and verifies the connection. Each trade holds one
// connection for the life of its row lock, so the pool bounds how many
// postings can be in flight at once.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("postgres ping failed", err, nil)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connection established", logger.Fields{
		"maxOpenConns": maxOpenConns,
		"maxIdleConns": maxIdleConns,
	})

	return db, nil
}
