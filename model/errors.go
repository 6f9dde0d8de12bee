package model

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidMapping is wrapped by every MappingError.
	ErrInvalidMapping = errors.New("invalid mapping")
	// ErrShortRow is returned when a row carries fewer values than the table has columns.
	ErrShortRow = errors.New("row has too few values")
)

// MappingError reports a struct type whose column declarations cannot be mapped.
type MappingError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *MappingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("model: %s: %s: %v", ErrInvalidMapping, e.Type, e.Err)
	}
	return fmt.Sprintf("model: %s: %s.%s: %v", ErrInvalidMapping, e.Type, e.Field, e.Err)
}

func (e *MappingError) Unwrap() []error {
	return []error{ErrInvalidMapping, e.Err}
}

// MaterializeError reports a row value that could not be stored into an entity field.
type MaterializeError struct {
	Table  string
	Column string
	Type   reflect.Type
	Err    error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("model: materialize %s.%s into %s: %v", e.Table, e.Column, e.Type, e.Err)
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

func errNotPointer(v any) error {
	return fmt.Errorf("destination %T is not a pointer to the mapped struct", v)
}
