// Package database opens the account store connections: a database/sql pool for
// postgres and mysql, or a go-redis client for redis.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connectivity check done while connecting.
const pingTimeout = 5 * time.Second

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it directly.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Connect establishes a database connection with the given configuration.
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConnectRedis parses a redis:// URL and returns a client after a successful PING.
// The pool size follows MaxOpenConnections when it is set.
func ConnectRedis(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if cfg.MaxOpenConnections > 0 {
		opts.PoolSize = cfg.MaxOpenConnections
	}
	if cfg.MaxIdleConnections > 0 {
		opts.MaxIdleConns = cfg.MaxIdleConnections
	}
	if cfg.ConnMaxLifetime > 0 {
		opts.ConnMaxLifetime = cfg.ConnMaxLifetime
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// RedisPinger adapts a redis client to Pinger.
type RedisPinger struct {
	Client redis.UniversalClient
}

// PingContext implements Pinger.
func (p RedisPinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

// StaticPinger is the Pinger for the in-memory store, which is always reachable.
type StaticPinger struct{}

// PingContext implements Pinger.
func (StaticPinger) PingContext(context.Context) error {
	return nil
}
