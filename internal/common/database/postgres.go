package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"mentor-matching/internal/common/config"
)

// ProfileSchema creates the profile table read by the postgres profile store.
// List columns are text[] so they scan through pq.Array.
const ProfileSchema = `
CREATE TABLE IF NOT EXISTS mentor_profiles (
	id               TEXT PRIMARY KEY,
	first_name       TEXT NOT NULL DEFAULT '',
	last_name        TEXT NOT NULL DEFAULT '',
	is_mentor        BOOLEAN NOT NULL DEFAULT FALSE,
	is_mentee        BOOLEAN NOT NULL DEFAULT FALSE,
	age              INTEGER NOT NULL DEFAULT 0,
	education_level  TEXT NOT NULL DEFAULT '',
	profession       TEXT NOT NULL DEFAULT '',
	past_professions TEXT[] NOT NULL DEFAULT '{}',
	county           TEXT NOT NULL DEFAULT '',
	religion         TEXT NOT NULL DEFAULT '',
	hobbies          TEXT[] NOT NULL DEFAULT '{}',
	skills           TEXT[] NOT NULL DEFAULT '{}',
	looking_for      TEXT[] NOT NULL DEFAULT '{}',
	industries       TEXT[] NOT NULL DEFAULT '{}',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS mentor_profiles_role_idx ON mentor_profiles (is_mentor, is_mentee);
`

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// EnsureSchema applies ProfileSchema. It is idempotent.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, ProfileSchema); err != nil {
		return fmt.Errorf("apply profile schema: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
