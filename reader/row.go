// Package reader extracts typed values from result rows.
//
// A Row is a positional view of raw driver values. For selects a typed
// extraction routine (Getter) based on the destination Go type, the declared
// database type and the column's nullability; callers resolve getters once and
// reuse them for every row.
package reader

import (
	"database/sql"
)

// Row is a positional view over one result row.
// Value returns the raw driver value at idx; nil means SQL NULL.
type Row interface {
	Len() int
	Value(idx int) any
}

// Values is a Row backed by a slice of raw driver values.
type Values []any

func (v Values) Len() int { return len(v) }

func (v Values) Value(idx int) any {
	if idx < 0 || idx >= len(v) {
		return nil
	}
	return v[idx]
}

// Clone returns a copy of v that does not share its backing array.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	copy(out, v)
	return out
}

// Scanner reads *sql.Rows into Values, reusing its buffers between rows.
type Scanner struct {
	rows *sql.Rows
	vals Values
	ptrs []any
}

// NewScanner prepares a Scanner sized to the columns of rows.
func NewScanner(rows *sql.Rows) (*Scanner, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	s := &Scanner{
		rows: rows,
		vals: make(Values, len(cols)),
		ptrs: make([]any, len(cols)),
	}
	for i := range s.vals {
		s.ptrs[i] = &s.vals[i]
	}
	return s, nil
}

// Next advances to the next row.
func (s *Scanner) Next() bool {
	return s.rows.Next()
}

// Row scans the current row. The returned Values are overwritten by the next
// call; Clone them to keep them.
func (s *Scanner) Row() (Values, error) {
	for i := range s.vals {
		s.vals[i] = nil
	}
	if err := s.rows.Scan(s.ptrs...); err != nil {
		return nil, err
	}
	return s.vals, nil
}

// Err returns the error, if any, that was encountered during iteration.
func (s *Scanner) Err() error {
	return s.rows.Err()
}
