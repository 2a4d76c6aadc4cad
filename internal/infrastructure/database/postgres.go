package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/chvvasss/gastrotech-website-sub001/internal/config"
)

const (
	connectTimeout = 10 * time.Second
	maxRetries     = 3
	retryDelay     = time.Second
)

// PostgresDB wraps the pgx connection pool.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	config config.DatabaseConfig
}

// NewPostgresDB creates an unconnected PostgresDB. Call Connect before use.
func NewPostgresDB(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{config: cfg}
}

// Connect establishes the connection pool, retrying with exponential
// backoff on failure.
func (db *PostgresDB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(db.config.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(db.config.MaxConns)
	poolCfg.MinConns = int32(db.config.MinConns)
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
		cancel()

		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				db.Pool = pool
				log.Info().Int("attempt", attempt).Msg("Connected to PostgreSQL")
				return nil
			}
			pool.Close()
		}
		lastErr = err

		log.Warn().Err(err).Int("attempt", attempt).Msg("Database connection failed")

		if attempt < maxRetries {
			delay := retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, lastErr)
}

// HealthCheck pings the database with a short timeout.
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close shuts down the pool. Safe to call more than once.
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}
	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("Database connection pool closed")
}
