package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Open connects to the question bank database and makes sure its schema
// exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	return OpenWithConfig(ctx, driver, dsn, DefaultPoolConfig())
}

func OpenWithConfig(ctx context.Context, driver Driver, dsn string, cfg PoolConfig) (*sql.DB, error) {
	var driverName, schema string
	switch driver {
	case DriverPostgres:
		driverName, schema = "pgx", schemaPostgres
	case DriverSQLite:
		driverName, schema = "sqlite", schemaSQLite
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY.
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = 30 * time.Minute
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return db, nil
}

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS bank_questions (
	id TEXT PRIMARY KEY,
	ord INTEGER NOT NULL,
	question_type TEXT NOT NULL,
	level TEXT NOT NULL DEFAULT '',
	material TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL,
	image TEXT NOT NULL DEFAULT '',
	options_json TEXT NOT NULL DEFAULT '[]',
	option_images_json TEXT,
	answer_key_json TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	quiz_token TEXT NOT NULL,
	phase TEXT NOT NULL DEFAULT '',
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS bank_questions_subject_token_idx ON bank_questions (subject, quiz_token);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS bank_questions (
	id TEXT PRIMARY KEY,
	ord INTEGER NOT NULL,
	question_type TEXT NOT NULL,
	level TEXT NOT NULL DEFAULT '',
	material TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL,
	image TEXT NOT NULL DEFAULT '',
	options_json TEXT NOT NULL DEFAULT '[]',
	option_images_json TEXT,
	answer_key_json TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	quiz_token TEXT NOT NULL,
	phase TEXT NOT NULL DEFAULT '',
	is_deleted INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS bank_questions_subject_token_idx ON bank_questions (subject, quiz_token);
`
