package dialect

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sijms/go-ora/v2/network"
)

// counter hands out placeholders the way the model binder does.
func counter(d Dialect) func(string) string {
	n := 0
	return func(string) string {
		tok := d.Placeholder(n)
		n++
		return tok
	}
}

func TestRegistered(t *testing.T) {
	for name, want := range map[string]string{
		"oracle":    "oracle",
		"godror":    "oracle",
		"postgres":  "postgres",
		"mysql":     "mysql",
		"sqlite3":   "sqlite3",
		"sqlserver": "sqlserver",
	} {
		d, ok := Get(name)
		if !ok {
			t.Fatalf("%s dialect not registered", name)
		}
		if d.Name() != want {
			t.Errorf("Get(%q).Name() = %q, want %q", name, d.Name(), want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet of an unknown dialect should panic")
		}
	}()
	MustGet("db2")
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		dialect string
		want    [3]string
	}{
		{"oracle", [3]string{":0", ":1", ":2"}},
		{"postgres", [3]string{"$1", "$2", "$3"}},
		{"mysql", [3]string{"?", "?", "?"}},
		{"sqlite3", [3]string{"?", "?", "?"}},
		{"sqlserver", [3]string{"@p1", "@p2", "@p3"}},
	}
	for _, tt := range tests {
		d := MustGet(tt.dialect)
		for i, want := range tt.want {
			if got := d.Placeholder(i); got != want {
				t.Errorf("%s.Placeholder(%d) = %q, want %q", tt.dialect, i, got, want)
			}
		}
	}
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"oracle":    `"A""B"`,
		"postgres":  `"A""B"`,
		"mysql":     "`A\"B`",
		"sqlserver": `[A"B]`,
	}
	for name, want := range tests {
		if got := MustGet(name).Quote(`A"B`); got != want {
			t.Errorf("%s.Quote = %s, want %s", name, got, want)
		}
	}
	if got, want := MustGet("sqlserver").Quote("A]B"), "[A]]B]"; got != want {
		t.Errorf("sqlserver.Quote = %s, want %s", got, want)
	}
}

func TestUpsertSQL(t *testing.T) {
	keys := []string{"ID"}
	rest := []string{"NAME"}
	all := []string{"ID", "NAME"}

	tests := []struct {
		dialect string
		want    string
	}{
		{"oracle", `MERGE INTO T USING (SELECT NULL FROM DUAL) ON ("ID"=:0) WHEN MATCHED THEN UPDATE SET "NAME"=:1 WHEN NOT MATCHED THEN INSERT ("ID","NAME") VALUES (:2,:3)`},
		{"postgres", `INSERT INTO T("ID","NAME") VALUES($1,$2) ON CONFLICT ("ID") DO UPDATE SET "NAME"=EXCLUDED."NAME"`},
		{"sqlite3", "INSERT INTO T(`ID`,`NAME`) VALUES(?,?) ON CONFLICT (`ID`) DO UPDATE SET `NAME`=excluded.`NAME`"},
		{"mysql", "INSERT INTO T(`ID`,`NAME`) VALUES(?,?) ON DUPLICATE KEY UPDATE `NAME`=VALUES(`NAME`)"},
		{"sqlserver", `MERGE INTO T WITH (HOLDLOCK) USING (SELECT 1 AS one) AS src ON ([ID]=@p1) WHEN MATCHED THEN UPDATE SET [NAME]=@p2 WHEN NOT MATCHED THEN INSERT ([ID],[NAME]) VALUES (@p3,@p4);`},
	}
	for _, tt := range tests {
		d := MustGet(tt.dialect)
		if got := d.UpsertSQL("T", keys, rest, all, counter(d)); got != tt.want {
			t.Errorf("%s upsert:\n got %s\nwant %s", tt.dialect, got, tt.want)
		}
	}
}

func TestUpsertSQLKeysOnly(t *testing.T) {
	keys := []string{"ID"}
	tests := map[string]string{
		"oracle":   `MERGE INTO T USING (SELECT NULL FROM DUAL) ON ("ID"=:0) WHEN NOT MATCHED THEN INSERT ("ID") VALUES (:1)`,
		"postgres": `INSERT INTO T("ID") VALUES($1) ON CONFLICT ("ID") DO NOTHING`,
		"mysql":    "INSERT INTO T(`ID`) VALUES(?) ON DUPLICATE KEY UPDATE `ID`=`ID`",
	}
	for name, want := range tests {
		d := MustGet(name)
		if got := d.UpsertSQL("T", keys, nil, keys, counter(d)); got != want {
			t.Errorf("%s upsert:\n got %s\nwant %s", name, got, want)
		}
	}
}

func TestDeleteSQL(t *testing.T) {
	if got, want := MustGet("oracle").DeleteSQL("N_USER", `N_USER."AGE">:0`), `DELETE FROM (SELECT N_USER.* FROM N_USER WHERE N_USER."AGE">:0)`; got != want {
		t.Errorf("oracle delete = %s, want %s", got, want)
	}
	if got, want := MustGet("oracle").DeleteSQL("N_USER", ""), `DELETE FROM (SELECT N_USER.* FROM N_USER)`; got != want {
		t.Errorf("oracle delete all = %s, want %s", got, want)
	}
	if got, want := MustGet("postgres").DeleteSQL("N_USER", `"AGE">$1`), `DELETE FROM N_USER WHERE "AGE">$1`; got != want {
		t.Errorf("postgres delete = %s, want %s", got, want)
	}
}

type mssqlError int32

func (e mssqlError) Error() string          { return "mssql: " + strconv.Itoa(int(e)) }
func (e mssqlError) SQLErrorNumber() int32 { return int32(e) }

func TestTranslateError(t *testing.T) {
	tests := []struct {
		dialect string
		err     error
		want    error
	}{
		{"oracle", &network.OracleError{ErrCode: 1, ErrMsg: "ORA-00001: unique constraint violated"}, ErrDuplicateKey},
		{"oracle", &network.OracleError{ErrCode: 2291, ErrMsg: "ORA-02291: parent key not found"}, ErrForeignKey},
		{"mysql", &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry"}, ErrDuplicateKey},
		{"mysql", &mysqldrv.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, ErrForeignKey},
		{"postgres", &pq.Error{Code: "23505"}, ErrDuplicateKey},
		{"postgres", &pq.Error{Code: "23503"}, ErrForeignKey},
		{"sqlite3", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, ErrDuplicateKey},
		{"sqlite3", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, ErrForeignKey},
		{"sqlserver", mssqlError(2627), ErrDuplicateKey},
		{"sqlserver", mssqlError(547), ErrForeignKey},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("exec: %w", tt.err)
		got := MustGet(tt.dialect).TranslateError(wrapped)
		if !errors.Is(got, tt.want) {
			t.Errorf("%s: TranslateError(%v) = %v, want %v", tt.dialect, tt.err, got, tt.want)
		}
		if !errors.Is(got, tt.err) {
			t.Errorf("%s: translated error lost the driver error: %v", tt.dialect, got)
		}
	}

	plain := errors.New("connection reset")
	for _, name := range []string{"oracle", "mysql", "postgres", "sqlite3", "sqlserver"} {
		if got := MustGet(name).TranslateError(plain); got != plain {
			t.Errorf("%s: unrelated error changed to %v", name, got)
		}
	}
}

func TestEmptyStringIsNull(t *testing.T) {
	for _, name := range []string{"oracle", "postgres", "mysql", "sqlite3", "sqlserver"} {
		en, ok := MustGet(name).(EmptyStringNull)
		if got, want := ok && en.EmptyStringIsNull(), name == "oracle"; got != want {
			t.Errorf("%s: empty string is null = %v, want %v", name, got, want)
		}
	}
}

func TestFoundRowsDSN(t *testing.T) {
	fr, ok := MustGet("mysql").(FoundRows)
	if !ok {
		t.Fatal("mysql does not rewrite DSNs")
	}
	dsn, err := fr.FoundRowsDSN("user:pw@tcp(localhost:3306)/app")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := mysqldrv.ParseDSN(dsn)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.ClientFoundRows || cfg.DBName != "app" || cfg.Addr != "localhost:3306" {
		t.Errorf("FoundRowsDSN = %s", dsn)
	}
	if _, err := fr.FoundRowsDSN("not a dsn"); err == nil {
		t.Error("expected an error for a malformed DSN")
	}

	for _, name := range []string{"oracle", "postgres", "sqlite3", "sqlserver"} {
		if _, ok := MustGet(name).(FoundRows); ok {
			t.Errorf("%s rewrites DSNs", name)
		}
	}
}

func TestParseDbType(t *testing.T) {
	tests := map[string]DbType{
		"varchar2":  Varchar2,
		"VARCHAR2":  Varchar2,
		"number":    Decimal,
		"timestamp": TimeStamp,
		"raw":       Raw,
		"bigint":    Int64,
		"clob":      Clob,
	}
	for in, want := range tests {
		got, err := ParseDbType(in)
		if err != nil || got != want {
			t.Errorf("ParseDbType(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDbType("geometry"); err == nil {
		t.Error("expected error for unknown type")
	}
}
