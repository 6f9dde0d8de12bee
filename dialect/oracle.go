package dialect

import (
	"errors"
	"strconv"

	"github.com/sijms/go-ora/v2/network"
)

// Oracle dialect. Bind tokens are zero-based named parameters (:0, :1, ...).
type oracle struct{}

func init() {
	d := &oracle{}
	Register("oracle", d)
	Register("godror", d)
}

func (d *oracle) Name() string { return "oracle" }

// EmptyStringIsNull reports true: Oracle stores '' in character columns as NULL.
func (d *oracle) EmptyStringIsNull() bool { return true }

func (d *oracle) Quote(name string) string {
	return quoteWith(`"`, name)
}

func (d *oracle) Placeholder(index int) string {
	return ":" + strconv.Itoa(index)
}

// UpsertSQL renders a MERGE against DUAL. Bind positions run through the ON
// clause, then the UPDATE SET clause, then the INSERT VALUES clause. The WHEN
// MATCHED branch is omitted when every column is part of the key.
func (d *oracle) UpsertSQL(table string, keys, rest, all []string, bind func(string) string) string {
	sql := "MERGE INTO " + table +
		" USING (SELECT NULL FROM DUAL) ON (" + assignments(d.Quote, keys, " AND ", bind) + ")"
	if len(rest) > 0 {
		sql += " WHEN MATCHED THEN UPDATE SET " + assignments(d.Quote, rest, ",", bind)
	}
	return sql + " WHEN NOT MATCHED THEN INSERT (" + quotedList(d.Quote, all) + ") VALUES (" + bindList(all, bind) + ")"
}

// DeleteSQL deletes through an inline view so the predicate may reference the
// table by name exactly as a SELECT would.
func (d *oracle) DeleteSQL(table, where string) string {
	sql := "DELETE FROM (SELECT " + table + ".* FROM " + table
	if where != "" {
		sql += " WHERE " + where
	}
	return sql + ")"
}

func (d *oracle) TranslateError(err error) error {
	var oerr *network.OracleError
	if !errors.As(err, &oerr) {
		return err
	}
	switch oerr.ErrCode {
	case 1: // ORA-00001 unique constraint violated
		return constraint(ErrDuplicateKey, err)
	case 2291, 2292: // parent key not found / child record found
		return constraint(ErrForeignKey, err)
	}
	return err
}
