package query

import (
	"strings"

	"github.com/shrek82/oramap/model"
)

// alwaysFalse is rendered for membership tests over an empty set.
const alwaysFalse = "1=2"

// Predicate renders a boolean SQL fragment, binding its values on p.
type Predicate func(p *Params) string

// Eq renders `col=<value>`, or `col IS NULL` when v binds as NULL.
func Eq(col *model.Column, v any) Predicate {
	return func(p *Params) string {
		if col.Bind(v) == nil {
			return col.Qualified + " IS NULL"
		}
		return col.Qualified + "=" + p.Bind(col, v)
	}
}

// Cmp renders `col <op> <value>`, e.g. Cmp(age, ">=", 18) or Cmp(name, "LIKE", "A%").
func Cmp(col *model.Column, op string, v any) Predicate {
	return func(p *Params) string {
		return col.Qualified + " " + op + " " + p.Bind(col, v)
	}
}

// IsNull renders `col IS NULL`.
func IsNull(col *model.Column) Predicate {
	return func(*Params) string {
		return col.Qualified + " IS NULL"
	}
}

// Raw splices sql and its arguments as is.
func Raw(sql string, args ...any) Predicate {
	return func(p *Params) string {
		p.Splice(args...)
		return sql
	}
}

// And joins preds with AND. An empty list renders nothing.
func And(preds ...Predicate) Predicate {
	return join(" AND ", "", preds)
}

// Or joins preds with OR. An empty list is always false.
func Or(preds ...Predicate) Predicate {
	return join(" OR ", alwaysFalse, preds)
}

// Not negates pred.
func Not(pred Predicate) Predicate {
	return func(p *Params) string {
		return "NOT (" + pred(p) + ")"
	}
}

func join(sep, empty string, preds []Predicate) Predicate {
	return func(p *Params) string {
		parts := renderAll(p, preds)
		switch len(parts) {
		case 0:
			return empty
		case 1:
			return parts[0]
		}
		return "(" + strings.Join(parts, sep) + ")"
	}
}

func renderAll(p *Params, preds []Predicate) []string {
	parts := make([]string, 0, len(preds))
	for _, pred := range preds {
		if s := pred(p); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// where renders preds as a top-level conjunction without enclosing parentheses.
func where(p *Params, preds []Predicate) string {
	return strings.Join(renderAll(p, preds), " AND ")
}
