package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dashboard/config"
	"dashboard/pkg/logger"

	_ "github.com/lib/pq"
)

// Connect opens the shared connection pool and pings it until it answers or
// the retries run out. The caller owns the returned handle and closes it on shutdown.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := Ping(ctx, db, cfg.PingRetries, cfg.PingInterval); err != nil {
		db.Close()
		return nil, err
	}
	logger.Sugar.Info("Successfully connected to the database")
	return db, nil
}

// Ping retries db.PingContext to ride out short DNS or network blips.
func Ping(ctx context.Context, db *sql.DB, retries int, interval time.Duration) error {
	var err error
	for i := 0; i < retries; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == retries-1 {
			break
		}
		logger.Sugar.Infof("Database connection failed, retrying in %s... (%v)", interval, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("could not connect to database after %d attempts: %w", retries, err)
}
