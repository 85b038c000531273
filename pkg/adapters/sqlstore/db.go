// Package sqlstore persists the catalog, run history and users in SQL.
// It speaks SQLite (modernc.org/sqlite) for development and tests and
// PostgreSQL (pgx) in production; queries are written with '?' placeholders
// and rebound per driver.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/habitability"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config describes the database connection.
type Config struct {
	Driver          string
	URL             string
	PingTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a file-backed SQLite configuration.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		URL:             "exointel.db",
		PingTimeout:     2 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Driver)
	}
	if c.URL == "" {
		return errors.New("database url is required")
	}
	if c.PingTimeout <= 0 {
		return errors.New("database ping timeout must be positive")
	}
	if c.MaxOpenConns < 1 {
		return errors.New("database max open conns must be >= 1")
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("database max idle conns must be between 0 and max open conns")
	}
	return nil
}

// DB wraps a SQL connection pool for exo-intel storage.
type DB struct {
	conn    *sqlx.DB
	dialect habitability.Dialect
	score   string
}

// Open connects, pings and returns the database. Call Migrate before use on a
// fresh database.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := cfg.URL
	dialect := habitability.Postgres
	if cfg.Driver == DriverSQLite {
		dsn = sqliteDSN(cfg.URL)
		dialect = habitability.SQLite
	}

	conn, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY under concurrent workers.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	score, err := habitability.Projection(dialect, habitability.DefaultColumns)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &DB{conn: conn, dialect: dialect, score: score}, nil
}

func sqliteDSN(path string) string {
	params := "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Dialect reports the SQL flavor in use.
func (db *DB) Dialect() habitability.Dialect {
	return db.dialect
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Catalog returns the catalog store.
func (db *DB) Catalog() *Catalog { return &Catalog{db: db} }

// History returns the run history store.
func (db *DB) History() *History { return &History{db: db} }

// Users returns the user directory.
func (db *DB) Users() *Users { return &Users{db: db} }

func (db *DB) rebind(query string) string {
	return db.conn.Rebind(query)
}

// Migrate creates the schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if db.dialect == habitability.Postgres {
		stmts = postgresSchema
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS star_systems (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		num_stars INTEGER,
		num_planets INTEGER,
		distance_parsecs REAL,
		ra_deg REAL,
		dec_deg REAL
	)`,
	`CREATE TABLE IF NOT EXISTS stars (
		id INTEGER PRIMARY KEY,
		system_id INTEGER NOT NULL REFERENCES star_systems(id),
		name TEXT NOT NULL,
		spectral_type TEXT,
		mass_sun REAL,
		radius_sun REAL,
		effective_temperature_k REAL,
		luminosity_sun REAL,
		age_gya REAL
	)`,
	`CREATE TABLE IF NOT EXISTS planets (
		id INTEGER PRIMARY KEY,
		host_star_id INTEGER NOT NULL REFERENCES stars(id),
		name TEXT NOT NULL,
		mass_earth REAL,
		radius_earth REAL,
		equilibrium_temperature_k REAL,
		semi_major_axis_au REAL,
		orbital_eccentricity REAL,
		orbital_period_days REAL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		api_key TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS simulation_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		task_id TEXT NOT NULL,
		simulation_type TEXT NOT NULL,
		input_parameters TEXT NOT NULL,
		status TEXT NOT NULL,
		result TEXT,
		created_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stars_system ON stars(system_id)`,
	`CREATE INDEX IF NOT EXISTS idx_planets_host ON planets(host_star_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_user_created ON simulation_runs(user_id, created_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS star_systems (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		num_stars INTEGER,
		num_planets INTEGER,
		distance_parsecs DOUBLE PRECISION,
		ra_deg DOUBLE PRECISION,
		dec_deg DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS stars (
		id BIGINT PRIMARY KEY,
		system_id BIGINT NOT NULL REFERENCES star_systems(id),
		name TEXT NOT NULL,
		spectral_type TEXT,
		mass_sun DOUBLE PRECISION,
		radius_sun DOUBLE PRECISION,
		effective_temperature_k DOUBLE PRECISION,
		luminosity_sun DOUBLE PRECISION,
		age_gya DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS planets (
		id BIGINT PRIMARY KEY,
		host_star_id BIGINT NOT NULL REFERENCES stars(id),
		name TEXT NOT NULL,
		mass_earth DOUBLE PRECISION,
		radius_earth DOUBLE PRECISION,
		equilibrium_temperature_k DOUBLE PRECISION,
		semi_major_axis_au DOUBLE PRECISION,
		orbital_eccentricity DOUBLE PRECISION,
		orbital_period_days DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		api_key UUID PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS simulation_runs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		task_id TEXT NOT NULL,
		simulation_type TEXT NOT NULL,
		input_parameters JSONB NOT NULL,
		status TEXT NOT NULL,
		result JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stars_system ON stars(system_id)`,
	`CREATE INDEX IF NOT EXISTS idx_planets_host ON planets(host_star_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_user_created ON simulation_runs(user_id, created_at)`,
}
