package model

import (
	"database/sql"
	"encoding"
	"reflect"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shrek82/oramap/reader"
)

// assignFunc reads the value of one column from row and stores it into the
// field at p.
type assignFunc func(row reader.Row, p unsafe.Pointer) error

type fieldSetter struct {
	col    *Column
	assign assignFunc
}

// Materialize fills dest, a pointer to the table's struct type, from row.
// Row values are read positionally in column order, matching SelectColumns.
// On success dest is marked loaded.
func (t *Table) Materialize(row reader.Row, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Type().Elem() != t.Type {
		return &MaterializeError{Table: t.Name, Type: t.Type, Err: errNotPointer(dest)}
	}
	if row.Len() < len(t.Columns) {
		return &MaterializeError{Table: t.Name, Type: t.Type, Err: ErrShortRow}
	}

	base := v.UnsafePointer()
	for _, s := range t.setters {
		if err := s.assign(row, unsafe.Add(base, s.col.offset)); err != nil {
			return &MaterializeError{Table: t.Name, Column: s.col.Name, Type: s.col.Type, Err: err}
		}
	}
	if t.loads {
		MarkLoaded(dest)
	}
	return nil
}

// Materialize returns a new T filled from row.
func Materialize[T any](t *Table, row reader.Row) (*T, error) {
	dest := new(T)
	if err := t.Materialize(row, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// compileSetter selects the extraction routine for c once; the returned
// function does no reflection for scalar fields.
func compileSetter(c *Column) (assignFunc, error) {
	t := c.Type
	idx := c.Index

	if t.Kind() == reflect.Pointer && c.kind != kindScalar {
		elem := t.Elem()
		inner, err := compileSetter(&Column{Index: idx, Type: elem, DbType: c.DbType, kind: c.kind})
		if err != nil {
			return nil, err
		}
		return func(row reader.Row, p unsafe.Pointer) error {
			if row.Value(idx) == nil {
				*(*unsafe.Pointer)(p) = nil
				return nil
			}
			n := reflect.New(elem).UnsafePointer()
			if err := inner(row, n); err != nil {
				return err
			}
			*(*unsafe.Pointer)(p) = n
			return nil
		}, nil
	}

	switch c.kind {
	case kindEnum:
		name, err := reader.For(stringType, c.DbType, true)
		if err != nil {
			return nil, err
		}
		nullable := c.Nullable
		return func(row reader.Row, p unsafe.Pointer) error {
			raw := row.Value(idx)
			if raw == nil {
				if !nullable {
					return &reader.ConversionError{Index: idx, Type: t, DbType: c.DbType, Err: reader.ErrNull}
				}
				reflect.NewAt(t, p).Elem().SetZero()
				return nil
			}
			v, err := name(row, idx)
			if err != nil {
				return err
			}
			if err := reflect.NewAt(t, p).Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v.(string))); err != nil {
				return &reader.ConversionError{Index: idx, Value: raw, Type: t, DbType: c.DbType, Err: err}
			}
			return nil
		}, nil

	case kindScanner:
		return func(row reader.Row, p unsafe.Pointer) error {
			raw := row.Value(idx)
			if err := reflect.NewAt(t, p).Interface().(sql.Scanner).Scan(raw); err != nil {
				return &reader.ConversionError{Index: idx, Value: raw, Type: t, DbType: c.DbType, Err: err}
			}
			return nil
		}, nil
	}

	get, err := reader.For(t, c.DbType, c.Nullable)
	if err != nil {
		return nil, err
	}
	if t.Kind() == reflect.Pointer {
		elem := t.Elem()
		store := storeFunc(elem)
		return func(row reader.Row, p unsafe.Pointer) error {
			v, err := get(row, idx)
			if err != nil {
				return err
			}
			if v == nil {
				*(*unsafe.Pointer)(p) = nil
				return nil
			}
			n := reflect.New(elem).UnsafePointer()
			store(n, v)
			*(*unsafe.Pointer)(p) = n
			return nil
		}, nil
	}
	store := storeFunc(t)
	return func(row reader.Row, p unsafe.Pointer) error {
		v, err := get(row, idx)
		if err != nil {
			return err
		}
		store(p, v)
		return nil
	}, nil
}

// storeFunc writes a value in reader.Getter's canonical representation into a
// field of type t. Named types share the layout of their underlying kind.
func storeFunc(t reflect.Type) func(p unsafe.Pointer, v any) {
	switch t {
	case timeType:
		return func(p unsafe.Pointer, v any) { *(*time.Time)(p) = v.(time.Time) }
	case decimalType:
		return func(p unsafe.Pointer, v any) { *(*decimal.Decimal)(p) = v.(decimal.Decimal) }
	case uuidType:
		return func(p unsafe.Pointer, v any) { *(*uuid.UUID)(p) = v.(uuid.UUID) }
	}

	switch t.Kind() {
	case reflect.String:
		return func(p unsafe.Pointer, v any) { *(*string)(p) = v.(string) }
	case reflect.Int:
		return func(p unsafe.Pointer, v any) { *(*int)(p) = int(v.(int64)) }
	case reflect.Int8:
		return func(p unsafe.Pointer, v any) { *(*int8)(p) = int8(v.(int64)) }
	case reflect.Int16:
		return func(p unsafe.Pointer, v any) { *(*int16)(p) = int16(v.(int64)) }
	case reflect.Int32:
		return func(p unsafe.Pointer, v any) { *(*int32)(p) = int32(v.(int64)) }
	case reflect.Int64:
		return func(p unsafe.Pointer, v any) { *(*int64)(p) = v.(int64) }
	case reflect.Uint:
		return func(p unsafe.Pointer, v any) { *(*uint)(p) = uint(v.(uint64)) }
	case reflect.Uint8:
		return func(p unsafe.Pointer, v any) { *(*uint8)(p) = uint8(v.(uint64)) }
	case reflect.Uint16:
		return func(p unsafe.Pointer, v any) { *(*uint16)(p) = uint16(v.(uint64)) }
	case reflect.Uint32:
		return func(p unsafe.Pointer, v any) { *(*uint32)(p) = uint32(v.(uint64)) }
	case reflect.Uint64:
		return func(p unsafe.Pointer, v any) { *(*uint64)(p) = v.(uint64) }
	case reflect.Float32:
		return func(p unsafe.Pointer, v any) { *(*float32)(p) = float32(v.(float64)) }
	case reflect.Float64:
		return func(p unsafe.Pointer, v any) { *(*float64)(p) = v.(float64) }
	case reflect.Bool:
		return func(p unsafe.Pointer, v any) { *(*bool)(p) = v.(bool) }
	}
	// []byte and named byte slices
	return func(p unsafe.Pointer, v any) { *(*[]byte)(p) = v.([]byte) }
}
