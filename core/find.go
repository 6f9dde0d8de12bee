package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/shrek82/oramap/cache"
	"github.com/shrek82/oramap/model"
	"github.com/shrek82/oramap/query"
	"github.com/shrek82/oramap/reader"
)

// Table returns the metadata of T in h's registry.
func Table[T any](h Handle) (*model.Table, error) {
	return model.TableFor[T](h.handle().db.registry)
}

// Find returns every T matching preds, joined with AND.
func Find[T any](ctx context.Context, h Handle, preds ...query.Predicate) ([]*T, error) {
	t, err := Table[T](h)
	if err != nil {
		return nil, err
	}
	return Select[T](ctx, h, query.From(t).Where(preds...))
}

// First returns the first T matching preds, or ErrRecordNotFound.
func First[T any](ctx context.Context, h Handle, preds ...query.Predicate) (*T, error) {
	list, err := Find[T](ctx, h, preds...)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrRecordNotFound
	}
	return list[0], nil
}

// Get returns the T whose primary key equals key, or ErrRecordNotFound.
func Get[T any](ctx context.Context, h Handle, key ...any) (*T, error) {
	t, err := Table[T](h)
	if err != nil {
		return nil, err
	}
	if len(t.PKColumns) == 0 {
		return nil, fmt.Errorf("get %s: %w", t.Name, ErrNoPrimaryKey)
	}
	pred, err := query.ByKey(t, key...)
	if err != nil {
		return nil, err
	}
	return First[T](ctx, h, pred)
}

// Select runs sel, which must project every column of T's table in canonical
// order (the default projection).
func Select[T any](ctx context.Context, h Handle, sel *query.Select) ([]*T, error) {
	sqlStr, args := sel.SQL()
	return Query[T](ctx, h, sqlStr, args...)
}

// Query runs a raw SELECT whose columns line up with T's SelectColumns and
// materializes every row.
func Query[T any](ctx context.Context, h Handle, sqlStr string, args ...any) ([]*T, error) {
	if strings.TrimSpace(sqlStr) == "" {
		return nil, ErrInvalidSQL
	}
	s := h.handle()
	t, err := Table[T](h)
	if err != nil {
		return nil, err
	}

	rows, key, err := s.fetch(ctx, t, sqlStr, args)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		item, err := model.Materialize[T](t, row)
		if err != nil {
			if key != "" {
				if err := s.db.cache.Delete(ctx, key); err != nil {
					s.db.logger.Warn("cache: delete %s: %v", t.Name, err)
				}
			}
			return nil, err
		}
		if hook, ok := any(item).(AfterFinder); ok {
			if err := hook.AfterFind(); err != nil {
				return nil, err
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// DeleteWhere removes every row of T's table matching preds and returns the
// number of rows deleted. With no predicates the whole table is cleared.
func DeleteWhere[T any](ctx context.Context, h Handle, preds ...query.Predicate) (int64, error) {
	s := h.handle()
	t, err := Table[T](h)
	if err != nil {
		return 0, err
	}
	sqlStr, args := query.Delete(t, preds...)
	res, err := s.execute(ctx, sqlStr, args)
	if err != nil {
		return 0, err
	}
	s.wrote(ctx, t.Name)
	return res.RowsAffected()
}

// fetch returns the raw rows of a read, serving them from the cache when ctx
// asks for it. key is the cache key the rows were served from or stored under.
func (s *session) fetch(ctx context.Context, t *model.Table, sqlStr string, args []any) ([]reader.Values, string, error) {
	ttl, cached := cache.TTLFrom(ctx)
	if !cached || s.tx || s.db.cache == nil {
		rows, err := s.scan(ctx, sqlStr, args)
		return rows, "", err
	}

	key := cache.Key(t.Name, sqlStr, args)
	if b, err := s.db.cache.Get(ctx, key); err != nil {
		s.db.logger.Warn("cache: get %s: %v", t.Name, err)
	} else if b != nil {
		rows, err := cache.DecodeRows(b)
		if err == nil {
			return rows, key, nil
		}
		s.db.logger.Warn("cache: decode %s: %v", t.Name, err)
	}

	rows, err := s.scan(ctx, sqlStr, args)
	if err != nil {
		return nil, "", err
	}
	b, err := cache.EncodeRows(rows)
	if err != nil {
		s.db.logger.Warn("cache: encode %s: %v", t.Name, err)
		return rows, "", nil
	}
	if err := s.db.cache.Set(ctx, key, b, ttl); err != nil {
		s.db.logger.Warn("cache: set %s: %v", t.Name, err)
		return rows, "", nil
	}
	return rows, key, nil
}

// scan runs a query and copies out every row.
func (s *session) scan(ctx context.Context, sqlStr string, args []any) ([]reader.Values, error) {
	rows, err := s.query(ctx, sqlStr, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sc, err := reader.NewScanner(rows)
	if err != nil {
		return nil, err
	}
	var out []reader.Values
	for sc.Next() {
		row, err := sc.Row()
		if err != nil {
			return nil, err
		}
		out = append(out, row.Clone())
	}
	return out, sc.Err()
}
