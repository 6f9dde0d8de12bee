package query

import (
	"fmt"
	"strings"

	"github.com/shrek82/oramap/model"
)

// Select builds a SELECT over one mapped table. Without an explicit column
// list it projects every column in canonical order, so rows can be passed
// straight to the table's materializer.
type Select struct {
	table   *model.Table
	columns []*model.Column
	where   []Predicate
	orderBy []string
}

// From starts a SELECT over t.
func From(t *model.Table) *Select {
	return &Select{table: t}
}

// Columns restricts the projection, e.g. for an IN subquery.
func (s *Select) Columns(cols ...*model.Column) *Select {
	s.columns = append(s.columns, cols...)
	return s
}

// Where adds predicates joined with AND.
func (s *Select) Where(preds ...Predicate) *Select {
	s.where = append(s.where, preds...)
	return s
}

// OrderBy appends ORDER BY terms; see Asc and Desc.
func (s *Select) OrderBy(terms ...string) *Select {
	s.orderBy = append(s.orderBy, terms...)
	return s
}

// Asc orders by col ascending.
func Asc(col *model.Column) string { return col.Qualified + " ASC" }

// Desc orders by col descending.
func Desc(col *model.Column) string { return col.Qualified + " DESC" }

// Build renders the statement, binding values on p.
func (s *Select) Build(p *Params) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(s.columns) == 0 {
		sb.WriteString(s.table.SelectColumns)
	} else {
		for i, c := range s.columns {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(c.Qualified)
		}
	}
	sb.WriteString(" FROM ")
	sb.WriteString(s.table.Name)
	if w := where(p, s.where); w != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(w)
	}
	if len(s.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(s.orderBy, ","))
	}
	return sb.String()
}

// SQL renders the statement with a fresh allocator.
func (s *Select) SQL() (string, []any) {
	p := NewParams(s.table.Dialect())
	sql := s.Build(p)
	return sql, p.Args()
}

// Subquery renders s for use inside a statement bound on p. The arguments are
// already on p, so the returned Subquery carries none.
func (s *Select) Subquery(p *Params) Subquery {
	return Subquery{SQL: s.Build(p)}
}

// Delete renders a table-scoped DELETE of the rows matching preds; with no
// predicates every row is deleted.
func Delete(t *model.Table, preds ...Predicate) (string, []any) {
	p := NewParams(t.Dialect())
	sql := t.Dialect().DeleteSQL(t.Name, where(p, preds))
	return sql, p.Args()
}

// ByKey matches the row whose primary key columns equal key, in PKColumns order.
func ByKey(t *model.Table, key ...any) (Predicate, error) {
	if len(t.PKColumns) == 0 {
		return nil, fmt.Errorf("query: %s has no primary key", t.Name)
	}
	if len(key) != len(t.PKColumns) {
		return nil, fmt.Errorf("query: %s key has %d columns, got %d values", t.Name, len(t.PKColumns), len(key))
	}
	preds := make([]Predicate, len(key))
	for i, c := range t.PKColumns {
		preds[i] = Eq(c, key[i])
	}
	return And(preds...), nil
}
