package dialect

import (
	"fmt"
	"strings"
)

// DbType identifies the database-side type of a mapped column.
// The names follow Oracle's type system; other dialects map them onto their nearest equivalent.
type DbType int

const (
	Unknown DbType = iota
	Varchar2
	NVarchar2
	Char
	NChar
	Clob
	NClob
	Int16
	Int32
	Int64
	Decimal
	Single
	Double
	Boolean
	Date
	TimeStamp
	TimeStampTZ
	Raw
	Blob
)

var dbTypeNames = map[DbType]string{
	Varchar2:    "varchar2",
	NVarchar2:   "nvarchar2",
	Char:        "char",
	NChar:       "nchar",
	Clob:        "clob",
	NClob:       "nclob",
	Int16:       "int16",
	Int32:       "int32",
	Int64:       "int64",
	Decimal:     "decimal",
	Single:      "single",
	Double:      "double",
	Boolean:     "boolean",
	Date:        "date",
	TimeStamp:   "timestamp",
	TimeStampTZ: "timestamptz",
	Raw:         "raw",
	Blob:        "blob",
}

// aliases accepted by ParseDbType in addition to the canonical names
var dbTypeAliases = map[string]DbType{
	"varchar":   Varchar2,
	"string":    Varchar2,
	"number":    Decimal,
	"numeric":   Decimal,
	"smallint":  Int16,
	"int":       Int32,
	"integer":   Int32,
	"bigint":    Int64,
	"float":     Single,
	"real":      Single,
	"bool":      Boolean,
	"datetime":  TimeStamp,
	"binary":    Raw,
	"varbinary": Raw,
	"text":      Clob,
}

func (t DbType) String() string {
	if name, ok := dbTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsText reports whether values of t are character data.
func (t DbType) IsText() bool {
	switch t {
	case Varchar2, NVarchar2, Char, NChar, Clob, NClob:
		return true
	}
	return false
}

// IsTemporal reports whether t holds dates or timestamps.
func (t DbType) IsTemporal() bool {
	return t == Date || t == TimeStamp || t == TimeStampTZ
}

// ParseDbType parses a type name as written in an `orm:"type:..."` tag.
// Matching is case-insensitive.
func ParseDbType(s string) (DbType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range dbTypeNames {
		if n == name {
			return t, nil
		}
	}
	if t, ok := dbTypeAliases[name]; ok {
		return t, nil
	}
	return Unknown, fmt.Errorf("dialect: unknown db type %q", s)
}
