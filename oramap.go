// Package oramap maps Go structs to database tables and executes the
// precomputed statements of each mapping. It re-exports the most used parts
// of the core, model, query and validator packages.
package oramap

import (
	"context"

	"github.com/shrek82/oramap/cache"
	"github.com/shrek82/oramap/core"
	"github.com/shrek82/oramap/model"
	"github.com/shrek82/oramap/query"
	"github.com/shrek82/oramap/validator"
)

// Re-export core types and functions
type (
	DB      = core.DB
	Tx      = core.Tx
	Options = core.Options
	Handle  = core.Handle
)

var (
	Open = core.Open
	New  = core.New

	ErrRecordNotFound = core.ErrRecordNotFound
	ErrNoPrimaryKey   = core.ErrNoPrimaryKey
	ErrNoColumns      = core.ErrNoColumns
	ErrDuplicateKey   = core.ErrDuplicateKey
	ErrForeignKey     = core.ErrForeignKey
)

// Re-export mapping types
type (
	Entity = model.Entity
	Table  = model.Table
	Column = model.Column
)

// Re-export query helpers
type (
	Predicate = query.Predicate
	Subquery  = query.Subquery
)

var (
	Eq       = query.Eq
	Cmp      = query.Cmp
	IsNull   = query.IsNull
	Raw      = query.Raw
	And      = query.And
	Or       = query.Or
	Not      = query.Not
	InQuery  = query.InQuery
	From     = query.From
	Asc      = query.Asc
	Desc     = query.Desc
	CacheFor = cache.WithTTL
)

// Re-export validator types and functions
type (
	ValidationErrors = validator.ValidationErrors
	Rules            = validator.Rules
	Ruler            = validator.Ruler
	Rule             = validator.Rule
)

var (
	Required = validator.Required
	MinLen   = validator.MinLen
	MaxLen   = validator.MaxLen
	MaxChars = validator.MaxChars
	Range    = validator.Range
	Regexp   = validator.Regexp
	UUID     = validator.UUID
)

// In matches col against values; an empty set matches nothing.
func In[V any](col *Column, values []V) Predicate {
	return query.In(col, values)
}

// TableOf returns the mapping of T in h's registry.
func TableOf[T any](h Handle) (*Table, error) {
	return core.Table[T](h)
}

// Find returns every T matching preds.
func Find[T any](ctx context.Context, h Handle, preds ...Predicate) ([]*T, error) {
	return core.Find[T](ctx, h, preds...)
}

// First returns the first T matching preds, or ErrRecordNotFound.
func First[T any](ctx context.Context, h Handle, preds ...Predicate) (*T, error) {
	return core.First[T](ctx, h, preds...)
}

// Get returns the T with the given primary key, or ErrRecordNotFound.
func Get[T any](ctx context.Context, h Handle, key ...any) (*T, error) {
	return core.Get[T](ctx, h, key...)
}

// DeleteWhere removes the rows of T's table matching preds.
func DeleteWhere[T any](ctx context.Context, h Handle, preds ...Predicate) (int64, error) {
	return core.DeleteWhere[T](ctx, h, preds...)
}
