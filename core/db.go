package core

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/shrek82/oramap/cache"
	"github.com/shrek82/oramap/dialect"
	"github.com/shrek82/oramap/logger"
	"github.com/shrek82/oramap/model"
	"github.com/shrek82/oramap/pool"
	"github.com/shrek82/oramap/validator"
)

// Options defines the configuration of a DB.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// SlowThreshold logs statements running at least this long at warn
	// level. Zero disables slow statement logging.
	SlowThreshold time.Duration
	// Logger defaults to logger.NewStdLogger.
	Logger logger.Logger
	// Cache enables result caching for reads whose context carries
	// cache.WithTTL.
	Cache cache.Cache
	// SkipValidation turns off the column rules checked before writes.
	SkipValidation bool
}

// DB is the main entry point for the ORM.
// It owns the connection pool and the metadata registry of one dialect.
type DB struct {
	*session

	pool     pool.Pool
	dialect  dialect.Dialect
	registry *model.Registry
	logger   logger.Logger
	cache    cache.Cache
	slow     time.Duration
	validate bool
	rules    sync.Map // *model.Table -> validator.Rules
	// matched is set when RowsAffected of an UPDATE counts matched rather
	// than changed rows.
	matched bool
}

// Open initializes a new DB instance with the given driver and DSN. The driver
// name selects the dialect.
func Open(driver, dsn string, opts *Options) (*DB, error) {
	d, ok := dialect.Get(driver)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %s", driver)
	}

	if fr, ok := d.(dialect.FoundRows); ok {
		var err error
		if dsn, err = fr.FoundRowsDSN(dsn); err != nil {
			return nil, fmt.Errorf("%s dsn: %w", driver, err)
		}
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db := New(sqlDB, d, opts)
	db.matched = true
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.pool.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// New wraps an open *sql.DB. For MySQL, open the connection with
// clientFoundRows=true as Open does; otherwise an UPDATE matching zero
// changed rows costs an extra key lookup to tell "unchanged" from "missing".
func New(sqlDB *sql.DB, d dialect.Dialect, opts *Options) *DB {
	if opts == nil {
		opts = &Options{}
	}
	p := pool.NewStdPool(sqlDB)
	pool.Configure(p, pool.Options{
		MaxOpenConns:    opts.MaxOpenConns,
		MaxIdleConns:    opts.MaxIdleConns,
		ConnMaxLifetime: opts.ConnMaxLifetime,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
	})

	db := &DB{
		pool:     p,
		dialect:  d,
		logger:   opts.Logger,
		cache:    opts.Cache,
		slow:     opts.SlowThreshold,
		validate: !opts.SkipValidation,
	}
	if _, ok := d.(dialect.FoundRows); !ok {
		db.matched = true
	}
	if db.logger == nil {
		db.logger = logger.NewStdLogger()
	}
	db.registry = model.NewRegistry(d,
		model.WithLogger(db.logger),
		model.WithBuildHook(func(t *model.Table) {
			db.rules.Store(t, validator.ForTable(t))
		}),
	)
	db.session = &session{db: db, exec: p}
	return db
}

// Stats reports the connection pool statistics.
func (db *DB) Stats() sql.DBStats {
	return db.pool.Stats()
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.pool.Close()
}

// SetLogger sets a custom logger for statements. Metadata builds keep logging
// to the logger the DB was created with.
func (db *DB) SetLogger(l logger.Logger) {
	db.logger = l
}

// Registry returns the metadata cache used by db.
func (db *DB) Registry() *model.Registry {
	return db.registry
}

// Dialect returns the SQL dialect of db.
func (db *DB) Dialect() dialect.Dialect {
	return db.dialect
}

// logSQL logs one executed statement and flags it when it ran slow.
func (db *DB) logSQL(sql string, duration time.Duration, err error, args ...any) {
	if db.logger == nil {
		return
	}
	db.logger.SQL(sql, duration, err, args...)
	if db.slow > 0 && duration >= db.slow {
		db.logger.Warn("slow sql [%v >= %v] %s | args: %v", duration, db.slow, sql, args)
	}
}

// check runs the column rules of t against entity.
func (db *DB) check(t *model.Table, entity any) error {
	if !db.validate {
		return nil
	}
	v, ok := db.rules.Load(t)
	if !ok {
		v, _ = db.rules.LoadOrStore(t, validator.ForTable(t))
	}
	return v.(validator.Rules).Validate(t, entity)
}

// invalidate drops cached reads of the named tables.
func (db *DB) invalidate(ctx context.Context, tables ...string) {
	if db.cache == nil {
		return
	}
	for _, name := range tables {
		if err := db.cache.DeletePrefix(ctx, cache.TablePrefix(name)); err != nil {
			db.logger.Warn("cache: invalidate %s: %v", name, err)
		}
	}
}

// Transaction executes fn within a database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise, or when fn panics.
func (db *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) (err error) {
	start := time.Now()
	sqlTx, err := db.pool.BeginTx(ctx, nil)
	db.logSQL("BEGIN", time.Since(start), err)
	if err != nil {
		return err
	}

	tx := newTx(db, sqlTx)

	defer func() {
		if p := recover(); p != nil {
			start := time.Now()
			rbErr := sqlTx.Rollback()
			db.logSQL("ROLLBACK", time.Since(start), rbErr)
			panic(p)
		} else if err != nil {
			start := time.Now()
			rbErr := sqlTx.Rollback()
			db.logSQL("ROLLBACK", time.Since(start), rbErr)
		} else {
			start := time.Now()
			err = sqlTx.Commit()
			db.logSQL("COMMIT", time.Since(start), err)
			if err == nil {
				db.invalidate(ctx, tx.written()...)
			}
		}
	}()

	err = fn(tx)
	return err
}
