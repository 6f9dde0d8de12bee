// Command oramap-gen reads table definitions from a database catalog and
// writes mapped Go structs for them.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/sijms/go-ora/v2"

	"github.com/shrek82/oramap/logger"
)

var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "oramap-gen",
	Short: "Generate mapped structs from database tables",
	Long: `oramap-gen introspects Oracle, PostgreSQL, MySQL or SQLite catalogs and
writes one Go file per table. Settings come from flags, ORAMAP_GEN_* environment
variables or a config file, in that order of precedence.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags(), configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./oramap-gen.yaml if present)")
	flags.String(keyDriver, "oracle", "database driver (oracle, postgres, mysql, sqlite3)")
	flags.String(keyDSN, "", "data source name")
	flags.String(keySchema, "", "schema / owner to read (default: the connected user's)")
	flags.StringSlice(keyTables, nil, "tables to generate (default: all)")
	flags.String(keyPackage, "models", "package name of the generated files")
	flags.String(keyOut, "./models", "output directory")
	flags.Bool(keyOverwrite, false, "overwrite existing files")
	flags.Int(keyWorkers, 4, "tables introspected concurrently")
	flags.Bool(keySingular, true, "singularize struct names (ACCOUNTS -> Account)")
}

// run connects, introspects and writes every requested table.
func run(ctx context.Context, cfg *Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.NewStdLogger().WithFields(map[string]any{"driver": cfg.Driver})

	cat, err := catalogFor(cfg.Driver)
	if err != nil {
		return err
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g := &generator{db: db, catalog: cat, cfg: cfg, log: log}
	written, err := g.generate(ctx)
	if err != nil {
		return err
	}
	log.Info("generated %d file(s) in %s", len(written), cfg.Out)
	return nil
}
