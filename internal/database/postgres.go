package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/darkdragonsastro/draco-simulator/internal/genlog"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

var log = genlog.New("database", genlog.Info)

// postgresDB is a Database backed by a single JSONB key/value table,
// grounded on the same pgx/v5-over-database/sql connection pattern
// JoshuaAFerguson-terminal-velocity's internal/database/connection.go uses,
// adapted from its relational player/inventory tables to the generic
// JSON-blob shape the rest of this module's Database interface expects.
type postgresDB struct {
	db *sql.DB
}

// PostgresConfig holds connection-pool tuning, mirroring the teacher's own
// Config fields.
type PostgresConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPostgresConfig returns the teacher's own pool-size defaults.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// Open returns a Postgres-backed Database for a non-empty dsn, or an
// in-memory Database when dsn is empty — the single constructor main.go
// calls regardless of whether a deployment has a database configured.
func Open(ctx context.Context, dsn string) (Database, error) {
	if dsn == "" {
		log.Infof("no DRACO_POSTGRES_DSN configured, using in-memory database")
		return NewInMemoryDB(), nil
	}
	return newPostgresDB(ctx, dsn, DefaultPostgresConfig())
}

func newPostgresDB(ctx context.Context, dsn string, cfg PostgresConfig) (*postgresDB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: opening postgres connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database: pinging postgres: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, createTableStmt); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database: creating kv_store table: %w", err)
	}

	log.Infof("connected to postgres")
	return &postgresDB{db: sqlDB}, nil
}

const createTableStmt = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// GetJSON retrieves the value stored at key and unmarshals it into v.
func (db *postgresDB) GetJSON(ctx context.Context, key string, v any) error {
	var raw []byte
	err := db.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("database: querying key %q: %w", key, err)
	}
	return json.Unmarshal(raw, v)
}

// SetJSON marshals v and upserts it at key.
func (db *postgresDB) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("database: marshaling value for key %q: %w", key, err)
	}
	_, err = db.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, raw)
	if err != nil {
		return fmt.Errorf("database: upserting key %q: %w", key, err)
	}
	return nil
}

// Delete removes key, if present.
func (db *postgresDB) Delete(ctx context.Context, key string) error {
	_, err := db.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("database: deleting key %q: %w", key, err)
	}
	return nil
}

// Exists reports whether key is present.
func (db *postgresDB) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := db.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM kv_store WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("database: checking existence of key %q: %w", key, err)
	}
	return exists, nil
}

// Close closes the underlying connection pool.
func (db *postgresDB) Close() error {
	return db.db.Close()
}
