package core

import (
	"context"
	"fmt"
	"reflect"

	"github.com/shrek82/oramap/model"
	"github.com/shrek82/oramap/query"
)

// Insert writes entity, a pointer to a mapped struct, with the table's INSERT
// template and marks it loaded.
func (s *session) Insert(ctx context.Context, entity any) error {
	t, err := s.table(entity)
	if err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("insert %s: %w", t.Name, ErrNoColumns)
	}
	if h, ok := entity.(BeforeInserter); ok {
		if err := h.BeforeInsert(); err != nil {
			return err
		}
	}
	if err := s.db.check(t, entity); err != nil {
		return err
	}
	if _, err := s.execute(ctx, t.Insert.SQL, t.Insert.Args(entity)); err != nil {
		return err
	}
	s.wrote(ctx, t.Name)
	model.MarkLoaded(entity)
	if h, ok := entity.(AfterInserter); ok {
		return h.AfterInsert()
	}
	return nil
}

// Update writes the non-key columns of entity to the row matching its primary
// key. ErrRecordNotFound is returned when no row matched.
func (s *session) Update(ctx context.Context, entity any) error {
	t, err := s.keyed(entity, "update")
	if err != nil {
		return err
	}
	if len(t.NonPKColumns) == 0 {
		return fmt.Errorf("update %s: %w", t.Name, ErrNoColumns)
	}
	if h, ok := entity.(BeforeUpdater); ok {
		if err := h.BeforeUpdate(); err != nil {
			return err
		}
	}
	if err := s.db.check(t, entity); err != nil {
		return err
	}
	if err := s.affectOne(ctx, t, t.Update, entity, !s.db.matched); err != nil {
		return err
	}
	if h, ok := entity.(AfterUpdater); ok {
		return h.AfterUpdate()
	}
	return nil
}

// Delete removes the row matching the primary key of entity.
// ErrRecordNotFound is returned when no row matched.
func (s *session) Delete(ctx context.Context, entity any) error {
	t, err := s.keyed(entity, "delete")
	if err != nil {
		return err
	}
	if h, ok := entity.(BeforeDeleter); ok {
		if err := h.BeforeDelete(); err != nil {
			return err
		}
	}
	if err := s.affectOne(ctx, t, t.Delete, entity, false); err != nil {
		return err
	}
	if h, ok := entity.(AfterDeleter); ok {
		return h.AfterDelete()
	}
	return nil
}

// Upsert inserts entity or, when a row with the same primary key exists,
// updates its non-key columns.
func (s *session) Upsert(ctx context.Context, entity any) error {
	t, err := s.keyed(entity, "upsert")
	if err != nil {
		return err
	}
	if err := s.db.check(t, entity); err != nil {
		return err
	}
	if _, err := s.execute(ctx, t.Upsert.SQL, t.Upsert.Args(entity)); err != nil {
		return err
	}
	s.wrote(ctx, t.Name)
	model.MarkLoaded(entity)
	return nil
}

// Save updates entities that were loaded from storage and inserts the rest.
func (s *session) Save(ctx context.Context, entity any) error {
	if model.Loaded(entity) {
		return s.Update(ctx, entity)
	}
	return s.Insert(ctx, entity)
}

func (s *session) table(entity any) (*model.Table, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("oramap: nil %T", entity)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("oramap: %T is not a struct or pointer to struct", entity)
	}
	return s.db.registry.Table(v.Type())
}

func (s *session) keyed(entity any, op string) (*model.Table, error) {
	t, err := s.table(entity)
	if err != nil {
		return nil, err
	}
	if len(t.PKColumns) == 0 {
		return nil, fmt.Errorf("%s %s: %w", op, t.Name, ErrNoPrimaryKey)
	}
	return t, nil
}

// affectOne runs stmt and reports ErrRecordNotFound when it touched no row.
// With verify set, a zero count is confirmed by looking the key up, for
// drivers that count only changed rows.
func (s *session) affectOne(ctx context.Context, t *model.Table, stmt model.Statement, entity any, verify bool) error {
	res, err := s.execute(ctx, stmt.SQL, stmt.Args(entity))
	if err != nil {
		return err
	}
	s.wrote(ctx, t.Name)
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if verify {
			found, err := s.exists(ctx, t, entity)
			if err != nil || found {
				return err
			}
		}
		return fmt.Errorf("%s %v: %w", t.Name, t.Key(entity), ErrRecordNotFound)
	}
	return nil
}

// exists reports whether a row with entity's primary key is stored.
func (s *session) exists(ctx context.Context, t *model.Table, entity any) (bool, error) {
	pred, err := query.ByKey(t, t.Key(entity)...)
	if err != nil {
		return false, err
	}
	sqlStr, args := query.From(t).Columns(t.PKColumns...).Where(pred).SQL()
	rows, err := s.query(ctx, sqlStr, args)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}
