package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shrek82/oramap/dialect"
)

// TagKey is the struct tag holding column declarations.
const TagKey = "orm"

// Tag holds a parsed `orm` struct tag.
type Tag struct {
	Column     string
	PrimaryKey bool
	Nullable   bool
	Size       int
	Type       dialect.DbType
}

// ParseTag parses the "orm" tag string. Items are separated by semicolons,
// commas or spaces, e.g. `orm:"column:USER_ID;pk;size:32;type:varchar2"`.
func ParseTag(tagStr string) (*Tag, error) {
	tag := &Tag{}
	parts := strings.FieldsFunc(tagStr, func(r rune) bool {
		return r == ';' || r == ',' || unicode.IsSpace(r)
	})

	for _, part := range parts {
		key, val, hasVal := strings.Cut(part, ":")
		key = strings.ToLower(key)

		switch key {
		case "column":
			if val == "" {
				return nil, fmt.Errorf("empty column name")
			}
			tag.Column = val
		case "pk":
			tag.PrimaryKey = true
		case "nullable":
			tag.Nullable = true
		case "size":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid size %q", val)
			}
			tag.Size = n
		case "type":
			t, err := dialect.ParseDbType(val)
			if err != nil {
				return nil, err
			}
			tag.Type = t
		default:
			return nil, fmt.Errorf("unknown tag item %q", part)
		}
		if hasVal && (key == "pk" || key == "nullable") {
			return nil, fmt.Errorf("tag item %q takes no value", key)
		}
	}
	return tag, nil
}

// upperSnake converts a Go identifier to an upper snake-case name:
// UserID -> USER_ID, NUser -> N_USER, HTTPStatus -> HTTP_STATUS.
func upperSnake(s string) string {
	rs := []rune(s)
	var sb strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) && i > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}
