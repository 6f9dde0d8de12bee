// Package query composes parameterized SQL fragments over mapped tables:
// membership predicates over one, two or three columns, full-row selects and
// table-scoped deletes.
package query

import (
	"github.com/shrek82/oramap/dialect"
	"github.com/shrek82/oramap/model"
)

// Params allocates bind tokens for one statement. Tokens are unique across
// every fragment rendered against the same Params.
type Params struct {
	dialect dialect.Dialect
	args    []any
}

// NewParams returns an empty allocator issuing tokens for d.
func NewParams(d dialect.Dialect) *Params {
	return &Params{dialect: d}
}

// Add binds v and returns its token. Values are normalised like column
// values: enums bind by member name and nil pointers as NULL.
func (p *Params) Add(v any) string {
	tok := p.dialect.Placeholder(len(p.args))
	p.args = append(p.args, model.BindValue(v))
	return tok
}

// Bind binds v as a value compared against col and returns its token. v is
// normalised with col's accessor rules, so a uuid matches a RAW column.
func (p *Params) Bind(col *model.Column, v any) string {
	tok := p.dialect.Placeholder(len(p.args))
	p.args = append(p.args, col.Bind(v))
	return tok
}

// Splice appends already rendered arguments without allocating tokens.
func (p *Params) Splice(args ...any) {
	p.args = append(p.args, args...)
}

// Args returns the bound values in token order.
func (p *Params) Args() []any {
	return p.args
}

// Len returns the number of bound values.
func (p *Params) Len() int {
	return len(p.args)
}

// Dialect returns the dialect tokens are rendered for.
func (p *Params) Dialect() dialect.Dialect {
	return p.dialect
}
