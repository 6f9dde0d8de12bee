package reader

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shrek82/oramap/dialect"
)

// Getter extracts the value at idx from row, converted to the canonical
// representation of its destination type:
//
//	string kinds      string
//	signed ints       int64
//	unsigned ints     uint64
//	floats            float64
//	bool              bool
//	[]byte            []byte
//	time.Time         time.Time
//	decimal.Decimal   decimal.Decimal
//	uuid.UUID         uuid.UUID
//
// Getters for pointer types return nil for NULL.
type Getter func(row Row, idx int) (any, error)

// convertFunc converts one non-NULL raw value. ok is false when the value
// should be treated as absent (zero dates).
type convertFunc func(raw any) (v any, ok bool, err error)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
)

// For returns the extraction routine for a destination of Go type t holding a
// column of dbType. Pointer types are always treated as nullable; for other
// types nullable selects between reading NULL as the zero value and failing
// with ErrNull.
func For(t reflect.Type, dbType dialect.DbType, nullable bool) (Getter, error) {
	if t.Kind() == reflect.Pointer {
		conv, err := converter(t.Elem(), dbType)
		if err != nil {
			return nil, err
		}
		return func(row Row, idx int) (any, error) {
			raw := row.Value(idx)
			if raw == nil {
				return nil, nil
			}
			v, ok, err := conv(raw)
			if err != nil {
				return nil, &ConversionError{Index: idx, Value: raw, Type: t, DbType: dbType, Err: err}
			}
			if !ok {
				return nil, nil
			}
			return v, nil
		}, nil
	}

	conv, err := converter(t, dbType)
	if err != nil {
		return nil, err
	}
	zero := canonicalZero(t)
	return func(row Row, idx int) (any, error) {
		raw := row.Value(idx)
		if raw == nil {
			if nullable {
				return zero, nil
			}
			return nil, &ConversionError{Index: idx, Type: t, DbType: dbType, Err: ErrNull}
		}
		v, _, err := conv(raw)
		if err != nil {
			return nil, &ConversionError{Index: idx, Value: raw, Type: t, DbType: dbType, Err: err}
		}
		return v, nil
	}, nil
}

func converter(t reflect.Type, dbType dialect.DbType) (convertFunc, error) {
	switch t {
	case timeType:
		return func(raw any) (any, bool, error) {
			tm, ok, err := toTime(raw)
			return tm, ok, err
		}, nil
	case decimalType:
		return always(func(raw any) (any, error) { return toDecimal(raw) }), nil
	case uuidType:
		return always(func(raw any) (any, error) { return toUUID(raw) }), nil
	}

	switch t.Kind() {
	case reflect.String:
		return always(func(raw any) (any, error) { return toString(raw, dbType) }), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := t.Bits()
		return always(func(raw any) (any, error) {
			n, err := toInt64(raw)
			if err != nil {
				return nil, err
			}
			if bits < 64 && (n < -1<<(bits-1) || n > 1<<(bits-1)-1) {
				return nil, ErrOverflow
			}
			return n, nil
		}), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := t.Bits()
		return always(func(raw any) (any, error) {
			n, err := toUint64(raw)
			if err != nil {
				return nil, err
			}
			if bits < 64 && n > 1<<bits-1 {
				return nil, ErrOverflow
			}
			return n, nil
		}), nil
	case reflect.Float32, reflect.Float64:
		return always(func(raw any) (any, error) { return toFloat64(raw) }), nil
	case reflect.Bool:
		return always(func(raw any) (any, error) { return toBool(raw) }), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return always(func(raw any) (any, error) { return toBytes(raw) }), nil
		}
	}
	return nil, fmt.Errorf("reader: %w: %s", ErrUnsupportedType, t)
}

func always(fn func(raw any) (any, error)) convertFunc {
	return func(raw any) (any, bool, error) {
		v, err := fn(raw)
		return v, err == nil, err
	}
}

// canonicalZero returns the zero value in the representation For's getters produce for t.
func canonicalZero(t reflect.Type) any {
	switch t {
	case timeType:
		return time.Time{}
	case decimalType:
		return decimal.Zero
	case uuidType:
		return uuid.Nil
	}
	switch t.Kind() {
	case reflect.String:
		return ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int64(0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uint64(0)
	case reflect.Float32, reflect.Float64:
		return float64(0)
	case reflect.Bool:
		return false
	}
	return []byte(nil)
}
