package dialect

import (
	"errors"

	mysqldrv "github.com/go-sql-driver/mysql"
)

// MySQL dialect implementation
type mysql struct{}

func init() {
	Register("mysql", &mysql{})
}

func (d *mysql) Name() string { return "mysql" }

func (d *mysql) Quote(name string) string {
	return quoteWith("`", name)
}

// FoundRowsDSN sets clientFoundRows so UPDATE reports matched rows, including
// rows whose values did not change.
func (d *mysql) FoundRowsDSN(dsn string) (string, error) {
	cfg, err := mysqldrv.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

func (d *mysql) Placeholder(int) string {
	return "?"
}

func (d *mysql) UpsertSQL(table string, keys, rest, all []string, bind func(string) string) string {
	sql := insertHead(d.Quote, table, all, bind) + " ON DUPLICATE KEY UPDATE "
	if len(rest) == 0 {
		// nothing to update; a self-assignment turns the conflict into a no-op
		if len(keys) == 0 {
			return sql
		}
		return sql + d.Quote(keys[0]) + "=" + d.Quote(keys[0])
	}
	for i, c := range rest {
		if i > 0 {
			sql += ","
		}
		sql += d.Quote(c) + "=VALUES(" + d.Quote(c) + ")"
	}
	return sql
}

func (d *mysql) DeleteSQL(table, where string) string {
	return plainDelete(table, where)
}

func (d *mysql) TranslateError(err error) error {
	var merr *mysqldrv.MySQLError
	if !errors.As(err, &merr) {
		return err
	}
	switch merr.Number {
	case 1062:
		return constraint(ErrDuplicateKey, err)
	case 1451, 1452:
		return constraint(ErrForeignKey, err)
	}
	return err
}
