package storage

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Connect opens a postgres connection, retrying with exponential backoff
// while the database is not reachable yet.
func Connect(ctx context.Context, dataSourceName string, retries uint64) (*sqlx.DB, error) {
	var db *sqlx.DB

	backoff := retry.WithMaxRetries(retries, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := sqlx.ConnectContext(ctx, "postgres", dataSourceName)
		if err != nil {
			log.Warnf("Error connecting to the database, retrying: %v", err)
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// KeepAlive pings the database on every tick until ctx is done. The pool
// reopens broken connections on its own, the ping only surfaces outages in
// the log.
func KeepAlive(ctx context.Context, db *sqlx.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
			err := db.PingContext(pingCtx)
			cancel()

			switch {
			case err != nil && healthy:
				log.Errorf("Lost database connection: %v", err)
				healthy = false
			case err == nil && !healthy:
				log.Info("Database connection restored")
				healthy = true
			}
		}
	}
}
