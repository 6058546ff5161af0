package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stwalsh4118/homematch/api/internal/config"
)

// Database wraps the pgx connection pool used for saved favorites.
type Database struct {
	Pool *pgxpool.Pool
}

// NewPostgresPool creates a new PostgreSQL connection pool using pgx.
// It configures the pool from cfg, verifies connectivity and returns a Database.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MinConns = int32(cfg.PoolMin)
	poolConfig.MaxConns = int32(cfg.PoolMax)
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Second
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Fail fast instead of on the first favorites request
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{Pool: pool}, nil
}

// schema creates the saved_properties table. property_id is unique so a
// listing can only be saved once.
const schema = `
CREATE TABLE IF NOT EXISTS saved_properties (
	id          UUID PRIMARY KEY,
	property_id INTEGER NOT NULL UNIQUE,
	title       TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	location    TEXT NOT NULL,
	bedrooms    INTEGER NOT NULL DEFAULT 0,
	bathrooms   INTEGER NOT NULL DEFAULT 0,
	size_sqft   DOUBLE PRECISION NOT NULL DEFAULT 0,
	amenities   TEXT[] NOT NULL DEFAULT '{}',
	image_url   TEXT,
	match_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	reasoning   TEXT NOT NULL DEFAULT '',
	saved_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_saved_properties_saved_at ON saved_properties (saved_at DESC);
`

// EnsureSchema creates the tables the API needs if they do not exist yet.
func (db *Database) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database not configured")
	}
	return db.Pool.Ping(ctx)
}

// Close gracefully closes the database connection pool.
func (db *Database) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}

// Stats returns statistics about the connection pool.
func (db *Database) Stats() *pgxpool.Stat {
	if db == nil || db.Pool == nil {
		return nil
	}
	return db.Pool.Stat()
}
