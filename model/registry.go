package model

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/shrek82/oramap/dialect"
	"github.com/shrek82/oramap/logger"
)

// Registry caches table metadata per struct type for one dialect.
// It is safe for concurrent use; each type is built at most once and build
// failures are cached like successes.
type Registry struct {
	dialect dialect.Dialect
	tables  sync.Map // reflect.Type -> *entry
	onBuild func(*Table)
	log     logger.Logger
}

type entry struct {
	once  sync.Once
	table *Table
	err   error
}

// Option configures a Registry.
type Option func(*Registry)

// WithBuildHook registers fn to run after every successful table build.
func WithBuildHook(fn func(*Table)) Option {
	return func(r *Registry) {
		r.onBuild = fn
	}
}

// WithLogger logs table builds to l.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// NewRegistry returns an empty registry rendering templates for d.
func NewRegistry(d dialect.Dialect, opts ...Option) *Registry {
	r := &Registry{dialect: d, log: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dialect returns the registry's dialect.
func (r *Registry) Dialect() dialect.Dialect {
	return r.dialect
}

// Table returns the metadata of typ, building it on first use. Pointer types
// resolve to their element type.
func (r *Registry) Table(typ reflect.Type) (*Table, error) {
	if typ == nil {
		return nil, &MappingError{Type: typ, Err: fmt.Errorf("nil type")}
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	v, ok := r.tables.Load(typ)
	if !ok {
		v, _ = r.tables.LoadOrStore(typ, &entry{})
	}
	e := v.(*entry)
	e.once.Do(func() {
		defer func() {
			if p := recover(); p != nil {
				e.table = nil
				e.err = &MappingError{Type: typ, Err: fmt.Errorf("build panicked: %v", p)}
				r.log.Error("model: build %s panicked: %v", typ, p)
			}
		}()
		e.table, e.err = buildTable(typ, r.dialect)
		if e.err != nil {
			r.log.Error("model: build %s failed: %v", typ, e.err)
			return
		}
		r.log.Info("model: built %s as %s with %d columns", typ, e.table.Name, len(e.table.Columns))
		if r.onBuild != nil {
			r.onBuild(e.table)
		}
	})
	return e.table, e.err
}

// TableOf returns the metadata of v's type. v may be a struct, a pointer to
// one, or a slice of either.
func (r *Registry) TableOf(v any) (*Table, error) {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return nil, &MappingError{Err: fmt.Errorf("nil value")}
	}
	for typ.Kind() == reflect.Pointer || typ.Kind() == reflect.Slice {
		typ = typ.Elem()
	}
	return r.Table(typ)
}

// TableFor returns the metadata of T.
func TableFor[T any](r *Registry) (*Table, error) {
	return r.Table(reflect.TypeFor[T]())
}
