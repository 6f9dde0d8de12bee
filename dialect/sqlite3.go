package dialect

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLite dialect implementation
type sqlite struct{}

func init() {
	d := &sqlite{}
	Register("sqlite3", d)
	Register("sqlite", d)
}

func (d *sqlite) Name() string { return "sqlite3" }

func (d *sqlite) Quote(name string) string {
	return quoteWith("`", name)
}

func (d *sqlite) Placeholder(int) string {
	return "?"
}

func (d *sqlite) UpsertSQL(table string, keys, rest, all []string, bind func(string) string) string {
	return insertHead(d.Quote, table, all, bind) + onConflict(d.Quote, "excluded", keys, rest)
}

func (d *sqlite) DeleteSQL(table, where string) string {
	return plainDelete(table, where)
}

func (d *sqlite) TranslateError(err error) error {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return err
	}
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return constraint(ErrDuplicateKey, err)
	case sqlite3.ErrConstraintForeignKey:
		return constraint(ErrForeignKey, err)
	}
	return err
}
