package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/shrek82/oramap/logger"
)

// renderTable returns the generated file for one table along with the names
// of columns whose type had no dedicated mapping.
func renderTable(driver, pkg, table string, singular bool, cols []ColumnInfo) (*jen.File, []string) {
	name := typeName(table, singular)
	var unmapped []string

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by oramap-gen. DO NOT EDIT.")
	f.Commentf("%s maps table %s.", name, table)
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		g.Qual(modelPath, "Entity")
		for _, col := range cols {
			field, ok := mapColumn(driver, col)
			if !ok {
				unmapped = append(unmapped, col.Name+" "+col.DataType)
			}
			stmt := g.Id(field.Name).Add(field.Type.code(field.Pointer)).Tag(map[string]string{"orm": field.Tag})
			if field.Comment != "" {
				stmt.Comment(strings.Join(strings.Fields(field.Comment), " "))
			}
		}
	})
	f.Line()
	f.Func().Params(jen.Op("*").Id(name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(table)),
	)
	return f, unmapped
}

type generator struct {
	db      *sql.DB
	catalog catalog
	cfg     *Config
	log     logger.Logger
}

// generate writes one file per table, introspecting up to cfg.Workers tables
// at a time. It returns the written paths in sorted order.
func (g *generator) generate(ctx context.Context) ([]string, error) {
	tables := g.cfg.Tables
	if len(tables) == 0 {
		var err error
		if tables, err = g.catalog.Tables(ctx, g.db, g.cfg.Schema); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
	}

	var (
		mu      sync.Mutex
		written []string
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for _, table := range tables {
		eg.Go(func() error {
			path, err := g.generateTable(ctx, table)
			if err != nil {
				return fmt.Errorf("table %s: %w", table, err)
			}
			if path != "" {
				mu.Lock()
				written = append(written, path)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(written)
	return written, nil
}

// generateTable writes the file of one table. Existing files are kept unless
// overwrite is set; a skipped table returns an empty path.
func (g *generator) generateTable(ctx context.Context, table string) (string, error) {
	path := filepath.Join(g.cfg.Out, strings.ToLower(table)+".go")
	if _, err := os.Stat(path); err == nil && !g.cfg.Overwrite {
		g.log.Warn("%s exists, skipped (use --overwrite)", path)
		return "", nil
	}

	cols, err := g.catalog.Columns(ctx, g.db, g.cfg.Schema, table)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("no columns found")
	}

	f, unmapped := renderTable(g.cfg.Driver, g.cfg.Package, table, g.cfg.Singular, cols)
	for _, col := range unmapped {
		g.log.Warn("%s: column %s has no type mapping, generated as string", table, col)
	}
	if err := f.Save(path); err != nil {
		return "", err
	}
	g.log.Info("generated %s -> %s", table, path)
	return path, nil
}
