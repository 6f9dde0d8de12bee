package query

import (
	"strings"

	"github.com/shrek82/oramap/model"
)

// Tuple2 is one row of a two-column membership test.
type Tuple2[A, B any] struct {
	A A
	B B
}

// Tuple3 is one row of a three-column membership test.
type Tuple3[A, B, C any] struct {
	A A
	B B
	C C
}

// Subquery is SQL spliced into a membership test together with its
// arguments. Build it against the outer statement's Params (see
// Select.Subquery) to keep tokens unique; otherwise avoiding collisions is up
// to the caller.
type Subquery struct {
	SQL  string
	Args []any
}

// In renders `col IN (<v0>,<v1>,...)`, or `1=2` when values is empty.
// Oracle limits literal lists to 1000 entries; longer lists are not split.
func In[V any](col *model.Column, values []V) Predicate {
	return func(p *Params) string {
		if len(values) == 0 {
			return alwaysFalse
		}
		toks := make([]string, len(values))
		for i, v := range values {
			toks[i] = p.Bind(col, v)
		}
		return col.Qualified + " IN (" + strings.Join(toks, ",") + ")"
	}
}

// In2 renders `(c1,c2) IN ((<a>,<b>),...)`, or `1=2` when values is empty.
func In2[A, B any](c1, c2 *model.Column, values []Tuple2[A, B]) Predicate {
	return func(p *Params) string {
		if len(values) == 0 {
			return alwaysFalse
		}
		rows := make([]string, len(values))
		for i, v := range values {
			rows[i] = "(" + p.Bind(c1, v.A) + "," + p.Bind(c2, v.B) + ")"
		}
		return tuple(c1, c2) + " IN (" + strings.Join(rows, ",") + ")"
	}
}

// In3 renders `(c1,c2,c3) IN ((<a>,<b>,<c>),...)`, or `1=2` when values is empty.
func In3[A, B, C any](c1, c2, c3 *model.Column, values []Tuple3[A, B, C]) Predicate {
	return func(p *Params) string {
		if len(values) == 0 {
			return alwaysFalse
		}
		rows := make([]string, len(values))
		for i, v := range values {
			rows[i] = "(" + p.Bind(c1, v.A) + "," + p.Bind(c2, v.B) + "," + p.Bind(c3, v.C) + ")"
		}
		return tuple(c1, c2, c3) + " IN (" + strings.Join(rows, ",") + ")"
	}
}

// InQuery renders `col IN (<sub>)`.
func InQuery(col *model.Column, sub Subquery) Predicate {
	return inQuery(col.Qualified, sub)
}

// In2Query renders `(c1,c2) IN (<sub>)`.
func In2Query(c1, c2 *model.Column, sub Subquery) Predicate {
	return inQuery(tuple(c1, c2), sub)
}

// In3Query renders `(c1,c2,c3) IN (<sub>)`.
func In3Query(c1, c2, c3 *model.Column, sub Subquery) Predicate {
	return inQuery(tuple(c1, c2, c3), sub)
}

func inQuery(lhs string, sub Subquery) Predicate {
	return func(p *Params) string {
		p.Splice(sub.Args...)
		return lhs + " IN (" + sub.SQL + ")"
	}
}

func tuple(cols ...*model.Column) string {
	refs := make([]string, len(cols))
	for i, c := range cols {
		refs[i] = c.Qualified
	}
	return "(" + strings.Join(refs, ",") + ")"
}
