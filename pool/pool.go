// Package pool holds the connection pool the executor runs on.
package pool

import (
	"context"
	"database/sql"
	"time"
)

// Pool is the subset of *sql.DB the executor needs.
type Pool interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	PingContext(ctx context.Context) error
	Stats() sql.DBStats
	Close() error

	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
	SetConnMaxIdleTime(d time.Duration)
}

// Options sizes a pool. Zero fields keep the database/sql defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// StdPool is a Pool backed by *sql.DB.
type StdPool struct {
	*sql.DB
}

func NewStdPool(db *sql.DB) *StdPool {
	return &StdPool{db}
}

// Configure applies the non-zero settings of opts to p.
func Configure(p Pool, opts Options) {
	if opts.MaxOpenConns > 0 {
		p.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		p.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		p.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		p.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}
