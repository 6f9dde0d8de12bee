package reader

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/shrek82/oramap/dialect"
)

var (
	// ErrNull is returned when a NULL is read into a non-nullable column.
	ErrNull = errors.New("unexpected NULL")
	// ErrUnsupportedType is returned by For when no extraction routine exists for a Go type.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrOverflow is returned when a numeric value does not fit the destination type.
	ErrOverflow = errors.New("value out of range")
)

// ConversionError describes a row value that could not be converted to its destination type.
type ConversionError struct {
	Index  int
	Value  any
	Type   reflect.Type
	DbType dialect.DbType
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("reader: column %d (%s): cannot convert %T(%v) to %s: %v",
		e.Index, e.DbType, e.Value, e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
