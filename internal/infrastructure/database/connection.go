package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/infrastructure/config"
)

// DB is an open database handle tagged with its SQL dialect.
type DB struct {
	*sql.DB
	Dialect string
}

// NewConnection opens the configured database. Postgres goes through a pgx
// pool exposed as *sql.DB; SQLite uses go-sqlite3 with a single connection.
func NewConnection(cfg *config.Config, logger logrus.FieldLogger) (*DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	switch driver {
	case "postgres":
		return newPostgres(cfg, dsn, logger)
	case "sqlite3":
		if dir := filepath.Dir(cfg.Database.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		return OpenSQLite(dsn)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func newPostgres(cfg *config.Config, dsn string, logger logrus.FieldLogger) (*DB, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = 10

	if cfg.Database.LogSQL {
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
				logger.WithFields(logrus.Fields(data)).WithField("pgx_level", lvl.String()).Debug(msg)
			}),
			LogLevel: tracelog.LogLevelTrace,
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping db: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	return &DB{DB: db, Dialect: dialect.Postgres}, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}

// OpenSQLite opens a SQLite database with foreign keys enforced.
func OpenSQLite(dsn string) (*DB, func(), error) {
	rawDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite db: %w", err)
	}
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := rawDB.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}

	return &DB{DB: rawDB, Dialect: dialect.SQLite}, func() {
		_ = rawDB.Close()
	}, nil
}
