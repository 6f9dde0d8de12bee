package core

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"
)

// Executor defines the interface for executing SQL statements.
// It is implemented by *sql.DB and *sql.Tx.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Handle is implemented by *DB and *Tx.
type Handle interface {
	handle() *session
}

// session runs statements on one executor. The DB's session uses the pool; a
// Tx has its own and records the tables it wrote.
type session struct {
	db   *DB
	exec Executor
	tx   bool

	mu    sync.Mutex
	dirty map[string]struct{}
}

func (s *session) handle() *session { return s }

// Exec executes a raw SQL statement without returning any rows.
func (s *session) Exec(ctx context.Context, sqlStr string, args ...any) (sql.Result, error) {
	if strings.TrimSpace(sqlStr) == "" {
		return nil, ErrInvalidSQL
	}
	return s.execute(ctx, sqlStr, args)
}

func (s *session) execute(ctx context.Context, sqlStr string, args []any) (sql.Result, error) {
	start := time.Now()
	res, err := s.exec.ExecContext(ctx, sqlStr, args...)
	s.db.logSQL(sqlStr, time.Since(start), err, args...)
	if err != nil {
		return nil, s.db.dialect.TranslateError(err)
	}
	return res, nil
}

func (s *session) query(ctx context.Context, sqlStr string, args []any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.exec.QueryContext(ctx, sqlStr, args...)
	s.db.logSQL(sqlStr, time.Since(start), err, args...)
	if err != nil {
		return nil, s.db.dialect.TranslateError(err)
	}
	return rows, nil
}

// wrote records a write to table. Outside a transaction cached reads of the
// table are dropped at once, inside one on commit.
func (s *session) wrote(ctx context.Context, table string) {
	if !s.tx {
		s.db.invalidate(ctx, table)
		return
	}
	s.mu.Lock()
	if s.dirty == nil {
		s.dirty = make(map[string]struct{})
	}
	s.dirty[table] = struct{}{}
	s.mu.Unlock()
}

func (s *session) written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.dirty))
	for name := range s.dirty {
		names = append(names, name)
	}
	return names
}
