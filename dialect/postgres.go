package dialect

import (
	"errors"
	"strconv"

	"github.com/lib/pq"
)

// PostgreSQL dialect implementation
type postgres struct{}

func init() {
	d := &postgres{}
	Register("postgres", d)
	Register("pgx", d)
}

func (d *postgres) Name() string { return "postgres" }

func (d *postgres) Quote(name string) string {
	return pq.QuoteIdentifier(name)
}

// PostgreSQL uses $1, $2, $3... for placeholders
func (d *postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index+1)
}

func (d *postgres) UpsertSQL(table string, keys, rest, all []string, bind func(string) string) string {
	return insertHead(d.Quote, table, all, bind) + onConflict(d.Quote, "EXCLUDED", keys, rest)
}

func (d *postgres) DeleteSQL(table, where string) string {
	return plainDelete(table, where)
}

func (d *postgres) TranslateError(err error) error {
	var perr *pq.Error
	if !errors.As(err, &perr) {
		return err
	}
	switch perr.Code {
	case "23505": // unique_violation
		return constraint(ErrDuplicateKey, err)
	case "23503": // foreign_key_violation
		return constraint(ErrForeignKey, err)
	}
	return err
}

// onConflict renders the ON CONFLICT tail used by PostgreSQL and SQLite.
func onConflict(quote func(string) string, excluded string, keys, rest []string) string {
	sql := " ON CONFLICT (" + quotedList(quote, keys) + ") DO "
	if len(rest) == 0 {
		return sql + "NOTHING"
	}
	sql += "UPDATE SET "
	for i, c := range rest {
		if i > 0 {
			sql += ","
		}
		sql += quote(c) + "=" + excluded + "." + quote(c)
	}
	return sql
}
