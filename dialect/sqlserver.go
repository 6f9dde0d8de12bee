package dialect

import (
	"errors"
	"strconv"
	"strings"
)

// SQL Server dialect implementation
type sqlserver struct{}

func init() {
	Register("sqlserver", &sqlserver{})
}

// sqlErrorNumber is implemented by the go-mssqldb error type.
type sqlErrorNumber interface {
	SQLErrorNumber() int32
}

func (d *sqlserver) Name() string { return "sqlserver" }

func (d *sqlserver) Quote(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *sqlserver) Placeholder(index int) string {
	return "@p" + strconv.Itoa(index+1)
}

func (d *sqlserver) UpsertSQL(table string, keys, rest, all []string, bind func(string) string) string {
	sql := "MERGE INTO " + table + " WITH (HOLDLOCK) USING (SELECT 1 AS one) AS src ON (" +
		assignments(d.Quote, keys, " AND ", bind) + ")"
	if len(rest) > 0 {
		sql += " WHEN MATCHED THEN UPDATE SET " + assignments(d.Quote, rest, ",", bind)
	}
	return sql + " WHEN NOT MATCHED THEN INSERT (" + quotedList(d.Quote, all) + ") VALUES (" + bindList(all, bind) + ");"
}

func (d *sqlserver) DeleteSQL(table, where string) string {
	return plainDelete(table, where)
}

func (d *sqlserver) TranslateError(err error) error {
	var nerr sqlErrorNumber
	if !errors.As(err, &nerr) {
		return err
	}
	switch nerr.SQLErrorNumber() {
	case 2601, 2627:
		return constraint(ErrDuplicateKey, err)
	case 547:
		return constraint(ErrForeignKey, err)
	}
	return err
}
