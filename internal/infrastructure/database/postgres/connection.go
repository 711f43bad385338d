// Package postgres manages the database connection pool and schema migrations.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
)

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	db  *sql.DB
	log logging.Logger
}

// NewConnection opens the pool, applies the pool settings, and verifies
// connectivity with a ping.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database ping failed")
	}

	log.Info("database connected",
		logging.String("host", cfg.Host),
		logging.String("database", cfg.DBName),
		logging.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return &Connection{db: db, log: log}, nil
}

// DB exposes the underlying pool for the repositories.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// HealthCheck pings the database; used by the readiness endpoint.
func (c *Connection) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database unreachable")
	}
	return nil
}

// Close drains the pool.
func (c *Connection) Close() error {
	c.log.Info("closing database connection")
	return c.db.Close()
}
