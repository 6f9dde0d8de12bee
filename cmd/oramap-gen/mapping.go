package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	decimalPath = "github.com/shopspring/decimal"
	uuidPath    = "github.com/google/uuid"
	modelPath   = "github.com/shrek82/oramap/model"
)

// goType is the Go type a column is generated with.
type goType struct {
	Path  string // import path, empty for builtin types
	Name  string
	Slice bool // []Name
}

func (t goType) code(pointer bool) *jen.Statement {
	switch {
	case t.Slice:
		return t.ident(jen.Index())
	case pointer:
		return t.ident(jen.Op("*"))
	}
	if t.Path != "" {
		return jen.Qual(t.Path, t.Name)
	}
	return jen.Id(t.Name)
}

func (t goType) ident(s *jen.Statement) *jen.Statement {
	if t.Path != "" {
		return s.Qual(t.Path, t.Name)
	}
	return s.Id(t.Name)
}

func (t goType) String() string {
	name := t.Name
	if t.Path != "" {
		name = t.Path[strings.LastIndex(t.Path, "/")+1:] + "." + name
	}
	if t.Slice {
		return "[]" + name
	}
	return name
}

var (
	goString  = goType{Name: "string"}
	goBool    = goType{Name: "bool"}
	goInt16   = goType{Name: "int16"}
	goInt32   = goType{Name: "int32"}
	goInt64   = goType{Name: "int64"}
	goFloat32 = goType{Name: "float32"}
	goFloat64 = goType{Name: "float64"}
	goBytes   = goType{Name: "byte", Slice: true}
	goTime    = goType{Path: "time", Name: "Time"}
	goDecimal = goType{Path: decimalPath, Name: "Decimal"}
	goUUID    = goType{Path: uuidPath, Name: "UUID"}
)

// Field is one generated struct field.
type Field struct {
	Name    string
	Type    goType
	Pointer bool
	Tag     string
	Comment string
}

// mapping is the Go type and orm tag type of a catalog type.
type mapping struct {
	typ    goType
	dbType string // empty when the Go type implies it
	sized  bool   // carries a size tag
}

// mapType maps a catalog type to its Go representation. ok is false for types
// with no dedicated mapping; those fall back to string.
func mapType(driver string, col ColumnInfo) (m mapping, ok bool) {
	switch col.DataType {
	case "VARCHAR2", "VARCHAR", "CHARACTER VARYING":
		return mapping{typ: goString, sized: true}, true
	case "NVARCHAR2":
		return mapping{typ: goString, dbType: "nvarchar2", sized: true}, true
	case "CHAR", "CHARACTER", "BPCHAR":
		return mapping{typ: goString, dbType: "char", sized: true}, true
	case "NCHAR":
		return mapping{typ: goString, dbType: "nchar", sized: true}, true
	case "CLOB", "TEXT", "LONGTEXT", "MEDIUMTEXT", "TINYTEXT", "JSON", "JSONB", "LONG":
		return mapping{typ: goString, dbType: "clob"}, true
	case "NCLOB":
		return mapping{typ: goString, dbType: "nclob"}, true
	case "UUID":
		return mapping{typ: goString}, true

	case "NUMBER", "DECIMAL", "NUMERIC":
		if col.Scale == 0 && col.Precision > 0 {
			switch {
			case col.Precision <= 4:
				return mapping{typ: goInt16}, true
			case col.Precision <= 9:
				return mapping{typ: goInt32}, true
			case col.Precision <= 18:
				return mapping{typ: goInt64}, true
			}
		}
		return mapping{typ: goDecimal}, true
	case "SMALLINT", "INT2", "TINYINT":
		return mapping{typ: goInt16}, true
	case "INTEGER", "INT", "INT4", "MEDIUMINT", "SERIAL":
		if driver == "sqlite3" {
			return mapping{typ: goInt64}, true
		}
		return mapping{typ: goInt32}, true
	case "BIGINT", "INT8", "BIGSERIAL":
		return mapping{typ: goInt64}, true

	case "BINARY_FLOAT", "FLOAT4":
		return mapping{typ: goFloat32}, true
	case "REAL":
		if driver == "sqlite3" {
			return mapping{typ: goFloat64}, true
		}
		return mapping{typ: goFloat32}, true
	case "FLOAT", "BINARY_DOUBLE", "DOUBLE", "DOUBLE PRECISION", "FLOAT8":
		return mapping{typ: goFloat64}, true

	case "BOOLEAN", "BOOL":
		return mapping{typ: goBool}, true

	case "DATE":
		return mapping{typ: goTime, dbType: "date"}, true
	case "TIMESTAMP", "DATETIME", "TIMESTAMP WITHOUT TIME ZONE":
		return mapping{typ: goTime}, true
	case "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITH LOCAL TIME ZONE", "TIMESTAMPTZ":
		return mapping{typ: goTime, dbType: "timestamptz"}, true

	case "RAW", "BINARY", "VARBINARY":
		if col.Size == 16 {
			return mapping{typ: goUUID}, true
		}
		return mapping{typ: goBytes, dbType: "raw", sized: true}, true
	case "BLOB", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB", "BYTEA", "LONG RAW":
		return mapping{typ: goBytes}, true
	}
	return mapping{typ: goString}, false
}

// mapColumn builds the struct field for col.
func mapColumn(driver string, col ColumnInfo) (Field, bool) {
	m, ok := mapType(driver, col)

	tag := []string{"column:" + col.Name}
	if col.PK {
		tag = append(tag, "pk")
	}
	if m.sized && col.Size > 0 {
		tag = append(tag, fmt.Sprintf("size:%d", col.Size))
	}
	if m.dbType != "" {
		tag = append(tag, "type:"+m.dbType)
	}

	return Field{
		Name:    goName(col.Name),
		Type:    m.typ,
		Pointer: col.Nullable && !col.PK && !m.typ.Slice,
		Tag:     strings.Join(tag, ";"),
		Comment: col.Comment,
	}, ok
}

var initialisms = map[string]string{
	"id": "ID", "url": "URL", "uuid": "UUID", "ip": "IP", "api": "API",
	"http": "HTTP", "json": "JSON", "sql": "SQL", "html": "HTML",
}

// goName converts a table or column name to an exported Go identifier:
// USER_ID and user_id both become UserID.
func goName(s string) string {
	return joinName(nameParts(s))
}

// typeName is the struct name of a table. With singular set the last word is
// singularized, so ORDER_LINES becomes OrderLine. Words ending in ss or us
// (ADDRESS, STATUS) are left alone.
func typeName(table string, singular bool) string {
	parts := nameParts(table)
	if singular && len(parts) > 0 {
		last := len(parts) - 1
		if w := parts[last]; !strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") {
			parts[last] = inflect.Singularize(w)
		}
	}
	return joinName(parts)
}

func nameParts(s string) []string {
	if strings.ToUpper(s) == s {
		s = strings.ToLower(s)
	}
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '$' || r == '#'
	})
}

func joinName(parts []string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, p := range parts {
		if up, ok := initialisms[strings.ToLower(p)]; ok {
			sb.WriteString(up)
			continue
		}
		if r, _ := utf8.DecodeRuneInString(p); unicode.IsLetter(r) {
			p = title.String(p)
		}
		sb.WriteString(p)
	}
	name := sb.String()
	if name == "" {
		return "X"
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		name = "X" + name
	}
	return name
}
