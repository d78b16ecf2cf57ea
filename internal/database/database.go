package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/CaseVault_Go/migrations"
)

// Pool is the part of the connection pool shutdown and readiness need
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// PoolSettings sizes the connection pool
type PoolSettings struct {
	ConnString string
	MaxConns   int
	MaxIdle    time.Duration
	MaxLife    time.Duration
}

// MigrationState is one embedded migration and whether it has run
type MigrationState struct {
	Version   int64
	File      string
	Applied   bool
	AppliedAt time.Time
}

func poolConfig(s PoolSettings) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(s.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}
	maxConns := s.MaxConns
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}
	cfg.MaxConns = int32(min(maxConns, math.MaxInt32))
	cfg.MinConns = min(DefaultMinConnections, cfg.MaxConns)
	if s.MaxLife > 0 {
		cfg.MaxConnLifetime = s.MaxLife
	}
	if s.MaxIdle > 0 {
		cfg.MaxConnIdleTime = s.MaxIdle
	}
	return cfg, nil
}

// NewPool connects to PostgreSQL and verifies the connection with a ping
func NewPool(ctx context.Context, s PoolSettings) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(s)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgConnected, "max_conns", cfg.MaxConns, "min_conns", cfg.MinConns)
	return pool, nil
}

func withProvider(pool *pgxpool.Pool, fn func(*goose.Provider) error) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) { _ = db.Close() }(db)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}
	return fn(provider)
}

// Migrate applies all pending embedded migrations and returns how many ran
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	applied := 0
	err := withProvider(pool, func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		applied = len(results)
		for _, r := range results {
			slog.Default().Info(LogMsgMigrationApplied, "version", r.Source.Version, "duration", r.Duration)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToApplyMigrations, err)
		}
		return nil
	})
	return applied, err
}

// MigrationStatus lists every embedded migration in version order
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool) ([]MigrationState, error) {
	var states []MigrationState
	err := withProvider(pool, func(p *goose.Provider) error {
		status, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToReadStatus, err)
		}
		states = make([]MigrationState, 0, len(status))
		for _, s := range status {
			states = append(states, MigrationState{
				Version:   s.Source.Version,
				File:      s.Source.Path,
				Applied:   s.State == goose.StateApplied,
				AppliedAt: s.AppliedAt,
			})
		}
		return nil
	})
	return states, err
}
