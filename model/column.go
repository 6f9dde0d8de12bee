package model

import (
	"database/sql"
	"encoding"
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shrek82/oramap/dialect"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	decimalType         = reflect.TypeOf(decimal.Decimal{})
	uuidType            = reflect.TypeOf(uuid.UUID{})
	bytesType           = reflect.TypeOf([]byte(nil))
	stringType          = reflect.TypeOf("")
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	scannerType         = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

type fieldKind int

const (
	kindScalar fieldKind = iota
	kindEnum
	kindScanner
)

// Column describes one mapped struct field.
type Column struct {
	Table      string
	Name       string
	Field      string
	Quoted     string // Name in dialect quoting
	Qualified  string // Table.Quoted
	Index      int
	DbType     dialect.DbType
	Size       int
	PrimaryKey bool
	Nullable   bool
	Type       reflect.Type

	owner  reflect.Type
	offset uintptr
	kind   fieldKind
	get    func(field unsafe.Pointer) any
}

// IsEnum reports whether the field holds an enum bound by member name.
func (c *Column) IsEnum() bool {
	return c.kind == kindEnum
}

// Value returns the bind value of the column for entity, which must be the
// table's struct type or a non-nil pointer to it. Enums render as their member
// name; nil pointers, nil slices and absent enums render as nil.
func (c *Column) Value(entity any) any {
	return c.get(unsafe.Add(basePointer(c.owner, entity), c.offset))
}

func (c *Column) String() string {
	return c.Qualified
}

// basePointer returns the address of the struct held by entity. Non-pointer
// values are copied first.
func basePointer(owner reflect.Type, entity any) unsafe.Pointer {
	v := reflect.ValueOf(entity)
	if v.IsValid() {
		if v.Kind() == reflect.Pointer && v.Type().Elem() == owner && !v.IsNil() {
			return v.UnsafePointer()
		}
		if v.Type() == owner {
			cp := reflect.New(owner)
			cp.Elem().Set(v)
			return cp.UnsafePointer()
		}
	}
	panic(fmt.Sprintf("model: %T is not a %s", entity, owner))
}

// classify reports how a field of type t is bound and read. Pointer types are
// classified by their element.
func classify(t reflect.Type) fieldKind {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if isEnum(t) {
		return kindEnum
	}
	switch t {
	case timeType, decimalType, uuidType:
		return kindScalar
	}
	if reflect.PointerTo(t).Implements(scannerType) {
		return kindScanner
	}
	return kindScalar
}

// isEnum matches named integer and string types that print as their member
// name and parse it back.
func isEnum(t reflect.Type) bool {
	if t.PkgPath() == "" || t.Name() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(stringerType) && pt.Implements(textUnmarshalerType)
}

// inferDbType returns the default database type for a field of type t.
func inferDbType(t reflect.Type, kind fieldKind) dialect.DbType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if kind == kindEnum {
		return dialect.Varchar2
	}
	switch t {
	case timeType:
		return dialect.TimeStamp
	case decimalType:
		return dialect.Decimal
	case uuidType:
		return dialect.Raw
	}
	switch t.Kind() {
	case reflect.String:
		return dialect.Varchar2
	case reflect.Int8, reflect.Int16, reflect.Uint8:
		return dialect.Int16
	case reflect.Int32, reflect.Uint16:
		return dialect.Int32
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return dialect.Int64
	case reflect.Float32:
		return dialect.Single
	case reflect.Float64:
		return dialect.Double
	case reflect.Bool:
		return dialect.Boolean
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return dialect.Blob
		}
	}
	return dialect.Unknown
}

// compileAccessor builds the bind value function for a field of type t.
func compileAccessor(t reflect.Type, kind fieldKind, dbType dialect.DbType) func(unsafe.Pointer) any {
	if t.Kind() == reflect.Pointer {
		elem := compileAccessor(t.Elem(), kind, dbType)
		return func(p unsafe.Pointer) any {
			pp := *(*unsafe.Pointer)(p)
			if pp == nil {
				return nil
			}
			return elem(pp)
		}
	}

	if kind == kindEnum {
		if t.Implements(stringerType) {
			return func(p unsafe.Pointer) any {
				return reflect.NewAt(t, p).Elem().Interface().(fmt.Stringer).String()
			}
		}
		return func(p unsafe.Pointer) any {
			return reflect.NewAt(t, p).Interface().(fmt.Stringer).String()
		}
	}

	switch t {
	case timeType:
		return func(p unsafe.Pointer) any { return *(*time.Time)(p) }
	case decimalType:
		return func(p unsafe.Pointer) any { return *(*decimal.Decimal)(p) }
	case uuidType:
		if dbType == dialect.Raw {
			return func(p unsafe.Pointer) any { return rawUUID(*(*uuid.UUID)(p)) }
		}
		return func(p unsafe.Pointer) any { return (*(*uuid.UUID)(p)).String() }
	case bytesType:
		return func(p unsafe.Pointer) any {
			if b := *(*[]byte)(p); b != nil {
				return b
			}
			return nil
		}
	}

	if t.PkgPath() == "" {
		switch t.Kind() {
		case reflect.String:
			return func(p unsafe.Pointer) any { return *(*string)(p) }
		case reflect.Int:
			return func(p unsafe.Pointer) any { return int64(*(*int)(p)) }
		case reflect.Int32:
			return func(p unsafe.Pointer) any { return int64(*(*int32)(p)) }
		case reflect.Int64:
			return func(p unsafe.Pointer) any { return *(*int64)(p) }
		case reflect.Float64:
			return func(p unsafe.Pointer) any { return *(*float64)(p) }
		case reflect.Bool:
			return func(p unsafe.Pointer) any { return *(*bool)(p) }
		}
	}

	if t.Kind() == reflect.Slice {
		return func(p unsafe.Pointer) any {
			v := reflect.NewAt(t, p).Elem()
			if v.IsNil() {
				return nil
			}
			return v.Interface()
		}
	}
	return func(p unsafe.Pointer) any {
		return reflect.NewAt(t, p).Elem().Interface()
	}
}

// Bind normalises a free-standing value compared against c the way c's
// accessor renders field values: BindValue rules, plus uuids as their 16 raw
// bytes on RAW columns and as text elsewhere.
func (c *Column) Bind(v any) any {
	var id uuid.UUID
	switch x := v.(type) {
	case uuid.UUID:
		id = x
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		id = *x
	default:
		return BindValue(v)
	}
	if c.DbType == dialect.Raw {
		return rawUUID(id)
	}
	return id.String()
}

func rawUUID(id uuid.UUID) []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

// BindValue normalises a free-standing value with the accessor rules: enums
// bind as their member name, nil pointers and nil slices as nil, and other
// pointers as their element.
func BindValue(v any) any {
	switch v.(type) {
	case nil:
		return nil
	case string, int, int64, int32, float64, bool, time.Time, decimal.Decimal:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	t := rv.Type()
	if isEnum(t) {
		if t.Implements(stringerType) {
			return rv.Interface().(fmt.Stringer).String()
		}
		p := reflect.New(t)
		p.Elem().Set(rv)
		return p.Interface().(fmt.Stringer).String()
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil
	}
	return rv.Interface()
}
