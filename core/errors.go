package core

import (
	"errors"

	"github.com/shrek82/oramap/dialect"
)

var (
	// ErrRecordNotFound is returned when a read expects a row but none matched,
	// and when an update or delete affects no row.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoPrimaryKey is returned for keyed writes on a table without primary key columns.
	ErrNoPrimaryKey = errors.New("table has no primary key")
	// ErrNoColumns is returned for writes that would render an empty column list.
	ErrNoColumns = errors.New("table has no writable columns")
	// ErrInvalidSQL is returned when a raw SQL statement is empty.
	ErrInvalidSQL = errors.New("invalid sql")
	// ErrDuplicateKey is returned when a database unique constraint is violated.
	ErrDuplicateKey = dialect.ErrDuplicateKey
	// ErrForeignKey is returned when a database foreign key constraint is violated.
	ErrForeignKey = dialect.ErrForeignKey
)
