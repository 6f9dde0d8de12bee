// Package validator checks entities against rules keyed by column name. Rules
// come from column declarations and from entities implementing Ruler.
package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/shrek82/oramap/dialect"
	"github.com/shrek82/oramap/model"
)

// ValidationErrors maps column names to the rules they failed.
type ValidationErrors map[string][]error

func (v ValidationErrors) Error() string {
	cols := make([]string, 0, len(v))
	for col := range v {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var sb strings.Builder
	for _, col := range cols {
		for _, err := range v[col] {
			if sb.Len() > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s: %v", col, err)
		}
	}
	return sb.String()
}

// Ruler is implemented by entities declaring rules beyond those derived from
// their columns. Keys are column names or Go field names.
type Ruler interface {
	Rules() Rules
}

// Rules maps column names to rules. Rules see column bind values, so enums
// are checked by member name and pointers by their element.
type Rules map[string][]Rule

// ForTable derives rules from column declarations. Sized character and RAW
// columns are length limited. Where the dialect stores '' as NULL, non-nullable
// character columns are required. Rules declared by a Ruler entity follow the
// derived ones; keys naming no column of t are ignored.
func ForTable(t *model.Table) Rules {
	rules := make(Rules)
	en, _ := t.Dialect().(dialect.EmptyStringNull)
	emptyIsNull := en != nil && en.EmptyStringIsNull()
	for _, c := range t.Columns {
		if emptyIsNull && c.DbType.IsText() && !c.Nullable {
			rules[c.Name] = append(rules[c.Name], Required)
		}
		if c.Size <= 0 {
			continue
		}
		switch c.DbType {
		case dialect.NVarchar2, dialect.NChar:
			rules[c.Name] = append(rules[c.Name], MaxChars(c.Size))
		case dialect.Varchar2, dialect.Char, dialect.Raw:
			rules[c.Name] = append(rules[c.Name], MaxLen(c.Size))
		}
	}

	if r, ok := reflect.New(t.Type).Interface().(Ruler); ok {
		for key, extra := range r.Rules() {
			if c := column(t, key); c != nil {
				rules[c.Name] = append(rules[c.Name], extra...)
			}
		}
	}
	return rules
}

// Validate checks entity, an instance of t's struct type, and reports
// failures keyed by column name.
func (r Rules) Validate(t *model.Table, entity any) error {
	errs := make(ValidationErrors)
	for _, c := range t.Columns {
		rules := r[c.Name]
		if len(rules) == 0 {
			continue
		}
		v := c.Value(entity)
		for _, rule := range rules {
			if err := rule.Validate(v); err != nil {
				errs[c.Name] = append(errs[c.Name], err)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func column(t *model.Table, key string) *model.Column {
	if c, ok := t.Column(key); ok {
		return c
	}
	for _, c := range t.Columns {
		if c.Field == key {
			return c
		}
	}
	return nil
}
