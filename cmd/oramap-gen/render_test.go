package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/oramap/logger"
)

func TestRenderTable(t *testing.T) {
	cols := []ColumnInfo{
		{Name: "USER_ID", DataType: "VARCHAR2", Size: 32, PK: true},
		{Name: "BALANCE", DataType: "NUMBER", Precision: 12, Scale: 2, Nullable: true, Comment: "in cents"},
		{Name: "SHAPE", DataType: "SDO_GEOMETRY"},
	}
	f, unmapped := renderTable("oracle", "models", "N_USER", true, cols)
	src := fmt.Sprintf("%#v", f)

	assert.Contains(t, src, "// Code generated by oramap-gen. DO NOT EDIT.")
	assert.Contains(t, src, "package models")
	assert.Contains(t, src, `"github.com/shrek82/oramap/model"`)
	assert.Contains(t, src, "type NUser struct {")
	assert.Contains(t, src, "model.Entity")
	assert.Contains(t, src, "`orm:\"column:USER_ID;pk;size:32\"`")
	assert.Contains(t, src, "*decimal.Decimal")
	assert.Contains(t, src, "// in cents")
	assert.Contains(t, src, "func (*NUser) TableName() string {")
	assert.Contains(t, src, `return "N_USER"`)
	assert.Equal(t, []string{"SHAPE SDO_GEOMETRY"}, unmapped)
}

func TestGenerateSQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE usho_member (
		id INTEGER PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		score DECIMAL(10,2),
		avatar BLOB,
		joined DATETIME NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE tag (label TEXT)`)
	require.NoError(t, err)

	out := t.TempDir()
	g := &generator{
		db:      db,
		catalog: sqliteCatalog{},
		cfg:     &Config{Driver: "sqlite3", Package: "models", Out: out, Workers: 2, Singular: true},
		log:     logger.Discard(),
	}

	written, err := g.generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "tag.go"), filepath.Join(out, "usho_member.go")}, written)

	src, err := os.ReadFile(filepath.Join(out, "usho_member.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "type UshoMember struct {")
	assert.Contains(t, string(src), "`orm:\"column:id;pk\"`")
	assert.Contains(t, string(src), "`orm:\"column:name;size:64\"`")
	assert.Contains(t, string(src), "*decimal.Decimal")
	assert.Contains(t, string(src), "[]byte")
	assert.Contains(t, string(src), "time.Time")

	written, err = g.generate(ctx)
	require.NoError(t, err)
	assert.Empty(t, written)

	g.cfg.Tables = []string{"missing"}
	_, err = g.generate(ctx)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(keyDriver, "oracle", "")
	flags.String(keyDSN, "", "")
	flags.String(keySchema, "", "")
	flags.StringSlice(keyTables, nil, "")
	flags.String(keyPackage, "models", "")
	flags.String(keyOut, "./models", "")
	flags.Bool(keyOverwrite, false, "")
	flags.Int(keyWorkers, 4, "")
	flags.Bool(keySingular, true, "")
	require.NoError(t, flags.Parse([]string{"--driver", "postgres", "--tables", "a,b"}))

	t.Setenv("ORAMAP_GEN_DSN", "postgres://localhost/app")

	dir := t.TempDir()
	file := filepath.Join(dir, "gen.yaml")
	require.NoError(t, os.WriteFile(file, []byte("package: entities\nworkers: 0\n"), 0o644))

	cfg, err := loadConfig(flags, file)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, "postgres://localhost/app", cfg.DSN)
	assert.Equal(t, []string{"a", "b"}, cfg.Tables)
	assert.Equal(t, "entities", cfg.Package)
	assert.Equal(t, 1, cfg.Workers)
	assert.True(t, cfg.Singular)

	_, err = loadConfig(flags, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
