package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ColumnInfo is one column as reported by a database catalog.
type ColumnInfo struct {
	Name      string
	DataType  string // base type name, upper case, without size
	Size      int    // character or byte length; 0 when not applicable
	Precision int
	Scale     int
	Nullable  bool
	PK        bool
	Comment   string
}

// catalog reads table definitions from one kind of database.
type catalog interface {
	Tables(ctx context.Context, db *sql.DB, schema string) ([]string, error)
	Columns(ctx context.Context, db *sql.DB, schema, table string) ([]ColumnInfo, error)
}

func catalogFor(driver string) (catalog, error) {
	switch driver {
	case "oracle":
		return oracleCatalog{}, nil
	case "postgres":
		return postgresCatalog{}, nil
	case "mysql":
		return mysqlCatalog{}, nil
	case "sqlite3":
		return sqliteCatalog{}, nil
	}
	return nil, fmt.Errorf("unsupported driver: %s", driver)
}

type oracleCatalog struct{}

func (oracleCatalog) owner(ctx context.Context, db *sql.DB, schema string) (string, error) {
	if schema != "" {
		return strings.ToUpper(schema), nil
	}
	var user string
	err := db.QueryRowContext(ctx, "SELECT USER FROM DUAL").Scan(&user)
	return user, err
}

func (c oracleCatalog) Tables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	owner, err := c.owner(ctx, db, schema)
	if err != nil {
		return nil, err
	}
	return queryStrings(ctx, db, "SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME", owner)
}

const oracleColumns = `SELECT c.COLUMN_NAME, c.DATA_TYPE, c.CHAR_LENGTH, c.DATA_LENGTH,
	NVL(c.DATA_PRECISION, 0), NVL(c.DATA_SCALE, 0), c.NULLABLE,
	CASE WHEN pk.COLUMN_NAME IS NULL THEN 0 ELSE 1 END, NVL(cm.COMMENTS, '')
FROM ALL_TAB_COLUMNS c
LEFT JOIN (
	SELECT cc.COLUMN_NAME FROM ALL_CONSTRAINTS k
	JOIN ALL_CONS_COLUMNS cc ON cc.OWNER = k.OWNER AND cc.CONSTRAINT_NAME = k.CONSTRAINT_NAME
	WHERE k.CONSTRAINT_TYPE = 'P' AND k.OWNER = :1 AND k.TABLE_NAME = :2
) pk ON pk.COLUMN_NAME = c.COLUMN_NAME
LEFT JOIN ALL_COL_COMMENTS cm
	ON cm.OWNER = c.OWNER AND cm.TABLE_NAME = c.TABLE_NAME AND cm.COLUMN_NAME = c.COLUMN_NAME
WHERE c.OWNER = :3 AND c.TABLE_NAME = :4
ORDER BY c.COLUMN_ID`

func (c oracleCatalog) Columns(ctx context.Context, db *sql.DB, schema, table string) ([]ColumnInfo, error) {
	owner, err := c.owner(ctx, db, schema)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, oracleColumns, owner, table, owner, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			col              ColumnInfo
			charLen, dataLen int
			nullable         string
			pk               int
		)
		if err := rows.Scan(&col.Name, &col.DataType, &charLen, &dataLen, &col.Precision, &col.Scale, &nullable, &pk, &col.Comment); err != nil {
			return nil, err
		}
		col.DataType = baseType(col.DataType)
		col.Nullable = nullable == "Y"
		col.PK = pk == 1
		switch col.DataType {
		case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR":
			col.Size = charLen
		case "RAW":
			col.Size = dataLen
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

type postgresCatalog struct{}

func (postgresCatalog) Tables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	return queryStrings(ctx, db,
		"SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = $1 ORDER BY tablename", orDefault(schema, "public"))
}

const postgresColumns = `
	SELECT
		c.column_name,
		c.data_type,
		COALESCE(c.character_maximum_length, 0),
		COALESCE(c.numeric_precision, 0),
		COALESCE(c.numeric_scale, 0),
		c.is_nullable,
		CASE WHEN EXISTS (
			SELECT 1 FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = c.table_schema AND tc.table_name = c.table_name
				AND kcu.column_name = c.column_name
		) THEN 'YES' ELSE 'NO' END,
		COALESCE(col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position), '')
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

func (postgresCatalog) Columns(ctx context.Context, db *sql.DB, schema, table string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, postgresColumns, orDefault(schema, "public"), table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var isNullable, isPK string
		if err := rows.Scan(&col.Name, &col.DataType, &col.Size, &col.Precision, &col.Scale, &isNullable, &isPK, &col.Comment); err != nil {
			return nil, err
		}
		col.DataType = baseType(col.DataType)
		col.Nullable = isNullable == "YES"
		col.PK = isPK == "YES"
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

type mysqlCatalog struct{}

func (mysqlCatalog) Tables(ctx context.Context, db *sql.DB, schema string) ([]string, error) {
	if schema != "" {
		return queryStrings(ctx, db,
			"SELECT table_name FROM information_schema.tables WHERE table_schema = ? AND table_type = 'BASE TABLE' ORDER BY table_name", schema)
	}
	return queryStrings(ctx, db, "SHOW TABLES")
}

func (mysqlCatalog) Columns(ctx context.Context, db *sql.DB, schema, table string) ([]ColumnInfo, error) {
	name := "`" + strings.ReplaceAll(table, "`", "``") + "`"
	if schema != "" {
		name = "`" + strings.ReplaceAll(schema, "`", "``") + "`." + name
	}
	rows, err := db.QueryContext(ctx, "SHOW FULL COLUMNS FROM "+name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			field, typ, null, key, extra, privileges, comment string
			collation, defaultVal                             sql.NullString
		)
		if err := rows.Scan(&field, &typ, &collation, &null, &key, &defaultVal, &extra, &privileges, &comment); err != nil {
			return nil, err
		}
		col := ColumnInfo{
			Name:     field,
			DataType: baseType(typ),
			Nullable: null == "YES",
			PK:       key == "PRI",
			Comment:  comment,
		}
		col.Size, col.Scale = typeArgs(typ)
		if col.DataType == "DECIMAL" || col.DataType == "NUMERIC" {
			col.Precision, col.Size = col.Size, 0
		}
		if col.DataType == "TINYINT" && col.Size == 1 {
			col.DataType = "BOOLEAN"
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

type sqliteCatalog struct{}

func (sqliteCatalog) Tables(ctx context.Context, db *sql.DB, _ string) ([]string, error) {
	return queryStrings(ctx, db, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
}

func (sqliteCatalog) Columns(ctx context.Context, db *sql.DB, _ string, table string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, type, \"notnull\", pk FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			name, typ   string
			notnull, pk int
		)
		if err := rows.Scan(&name, &typ, &notnull, &pk); err != nil {
			return nil, err
		}
		col := ColumnInfo{
			Name:     name,
			DataType: baseType(typ),
			Nullable: notnull == 0 && pk == 0,
			PK:       pk > 0,
		}
		col.Size, col.Scale = typeArgs(typ)
		if col.DataType == "DECIMAL" || col.DataType == "NUMERIC" {
			col.Precision, col.Size = col.Size, 0
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// baseType strips size arguments and modifiers: "varchar(64)" -> "VARCHAR",
// "TIMESTAMP(6) WITH TIME ZONE" -> "TIMESTAMP WITH TIME ZONE".
func baseType(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if open := strings.Index(s, "("); open != -1 {
		if end := strings.Index(s[open:], ")"); end != -1 {
			s = s[:open] + s[open+end+1:]
		}
	}
	s = strings.TrimSuffix(s, " UNSIGNED")
	return strings.Join(strings.Fields(s), " ")
}

// typeArgs parses "(n)" or "(n,m)" from a column type.
func typeArgs(s string) (n, m int) {
	open := strings.Index(s, "(")
	if open == -1 {
		return 0, 0
	}
	fmt.Sscanf(s[open+1:], "%d,%d", &n, &m)
	return n, m
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
