package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unsafe"

	"github.com/shrek82/oramap/dialect"
)

var loadMarkerType = reflect.TypeOf((*loadMarker)(nil)).Elem()

// Statement is a precomputed SQL template together with the columns bound to
// its placeholders, in placeholder order.
type Statement struct {
	SQL   string
	Binds []*Column
}

// Args returns the bind values of entity in placeholder order.
func (s Statement) Args(entity any) []any {
	if len(s.Binds) == 0 {
		return nil
	}
	base := basePointer(s.Binds[0].owner, entity)
	args := make([]any, len(s.Binds))
	for i, c := range s.Binds {
		args[i] = c.get(unsafe.Add(base, c.offset))
	}
	return args
}

// Table is the database mapping of one struct type.
type Table struct {
	Type          reflect.Type
	Name          string
	Columns       []*Column // ordered by Go field name
	ColumnMap     map[string]*Column
	PKColumns     []*Column
	NonPKColumns  []*Column
	FixedColumns  []*Column
	Insert        Statement
	Update        Statement // SET non-pk columns WHERE pk columns
	Delete        Statement // WHERE pk columns
	Upsert        Statement
	SelectColumns string

	dialect dialect.Dialect
	setters []fieldSetter
	loads   bool
}

// Column returns the descriptor of the named column.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.ColumnMap[name]
	return c, ok
}

// Dialect returns the dialect the templates were rendered for.
func (t *Table) Dialect() dialect.Dialect {
	return t.dialect
}

// Key returns the primary key values of entity in PKColumns order.
func (t *Table) Key(entity any) []any {
	base := basePointer(t.Type, entity)
	key := make([]any, len(t.PKColumns))
	for i, c := range t.PKColumns {
		key[i] = c.get(unsafe.Add(base, c.offset))
	}
	return key
}

// New returns a pointer to a new zero entity of the table's type.
func (t *Table) New() any {
	return reflect.New(t.Type).Interface()
}

type structField struct {
	reflect.StructField
	offset uintptr
	tag    string
}

// collectFields lists tagged fields of typ, flattening untagged embedded structs.
func collectFields(typ reflect.Type, base uintptr, out []structField) ([]structField, error) {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag, tagged := sf.Tag.Lookup(TagKey)
		if tag == "-" {
			continue
		}
		if sf.Anonymous && !tagged && sf.Type.Kind() == reflect.Struct {
			var err error
			if out, err = collectFields(sf.Type, base+sf.Offset, out); err != nil {
				return nil, err
			}
			continue
		}
		if !tagged {
			continue
		}
		if !sf.IsExported() {
			return nil, &MappingError{Type: typ, Field: sf.Name, Err: fmt.Errorf("unexported field carries an %s tag", TagKey)}
		}
		out = append(out, structField{StructField: sf, offset: base + sf.Offset, tag: tag})
	}
	return out, nil
}

func newColumn(owner reflect.Type, table string, f structField, d dialect.Dialect) (*Column, error) {
	tag, err := ParseTag(f.tag)
	if err != nil {
		return nil, err
	}

	ft := f.Type
	if ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.Pointer {
		return nil, fmt.Errorf("unsupported type %s", ft)
	}
	kind := classify(ft)
	dbType := tag.Type
	if dbType == dialect.Unknown {
		dbType = inferDbType(ft, kind)
		if dbType == dialect.Unknown && kind != kindScanner {
			return nil, fmt.Errorf("unsupported type %s", ft)
		}
	}

	name := tag.Column
	if name == "" {
		name = upperSnake(f.Name)
	}
	c := &Column{
		Table:      table,
		Name:       name,
		Field:      f.Name,
		Quoted:     d.Quote(name),
		DbType:     dbType,
		Size:       tag.Size,
		PrimaryKey: tag.PrimaryKey,
		Nullable:   tag.Nullable || ft.Kind() == reflect.Pointer || ft.Kind() == reflect.Slice,
		Type:       ft,
		owner:      owner,
		offset:     f.offset,
		kind:       kind,
	}
	c.Qualified = table + "." + c.Quoted
	c.get = compileAccessor(ft, kind, dbType)
	return c, nil
}

// buildTable reflects over typ once and renders every template for d.
func buildTable(typ reflect.Type, d dialect.Dialect) (*Table, error) {
	if typ.Kind() != reflect.Struct {
		return nil, &MappingError{Type: typ, Err: fmt.Errorf("%s is not a struct", typ.Kind())}
	}
	if typ.Name() == "" {
		return nil, &MappingError{Type: typ, Err: fmt.Errorf("unnamed struct types cannot be mapped")}
	}

	proto := reflect.New(typ).Interface()
	name := upperSnake(typ.Name())
	if n, ok := proto.(TableNamer); ok && n.TableName() != "" {
		name = n.TableName()
	}

	fields, err := collectFields(typ, 0, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})

	t := &Table{
		Type:      typ,
		Name:      name,
		ColumnMap: make(map[string]*Column, len(fields)),
		dialect:   d,
		loads:     reflect.PointerTo(typ).Implements(loadMarkerType),
	}
	for i, f := range fields {
		c, err := newColumn(typ, name, f, d)
		if err != nil {
			return nil, &MappingError{Type: typ, Field: f.Name, Err: err}
		}
		if prev, dup := t.ColumnMap[c.Name]; dup {
			return nil, &MappingError{Type: typ, Field: f.Name, Err: fmt.Errorf("column %s already mapped by %s", c.Name, prev.Field)}
		}
		c.Index = i
		t.Columns = append(t.Columns, c)
		t.ColumnMap[c.Name] = c
		if c.PrimaryKey {
			t.PKColumns = append(t.PKColumns, c)
		} else {
			t.NonPKColumns = append(t.NonPKColumns, c)
		}

		assign, err := compileSetter(c)
		if err != nil {
			return nil, &MappingError{Type: typ, Field: f.Name, Err: err}
		}
		t.setters = append(t.setters, fieldSetter{col: c, assign: assign})
	}

	if cc, ok := proto.(ConcurrencyChecker); ok {
		t.FixedColumns = fixedColumns(t, cc.ConcurrencyCheck())
	}

	t.renderTemplates()
	return t, nil
}

// fixedColumns resolves concurrency check names to known non-pk columns, in column order.
func fixedColumns(t *Table, names []string) []*Column {
	keep := make(map[int]bool, len(names))
	for _, n := range names {
		if c, ok := t.ColumnMap[n]; ok && !c.PrimaryKey {
			keep[c.Index] = true
		}
	}
	var fixed []*Column
	for _, c := range t.Columns {
		if keep[c.Index] {
			fixed = append(fixed, c)
		}
	}
	return fixed
}

// binder allocates placeholders for one template, starting at zero.
type binder struct {
	d     dialect.Dialect
	binds []*Column
}

func newBinder(d dialect.Dialect) *binder {
	return &binder{d: d}
}

func (b *binder) bind(c *Column) string {
	tok := b.d.Placeholder(len(b.binds))
	b.binds = append(b.binds, c)
	return tok
}

// assign renders `"COL"=<p>` for each column, joined by sep.
func (b *binder) assign(cols []*Column, sep string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Quoted + "=" + b.bind(c)
	}
	return strings.Join(parts, sep)
}

func (b *binder) list(cols []*Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = b.bind(c)
	}
	return strings.Join(parts, ",")
}

func (b *binder) statement(sql string) Statement {
	return Statement{SQL: sql, Binds: b.binds}
}

func (t *Table) renderTemplates() {
	quoted := make([]string, len(t.Columns))
	qualified := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		quoted[i] = c.Quoted
		qualified[i] = c.Qualified
	}

	b := newBinder(t.dialect)
	t.Insert = b.statement("INSERT INTO " + t.Name + "(" + strings.Join(quoted, ",") + ") VALUES(" + b.list(t.Columns) + ")")

	b = newBinder(t.dialect)
	set := b.assign(t.NonPKColumns, ",")
	t.Update = b.statement("UPDATE " + t.Name + " SET " + set + " WHERE " + b.assign(t.PKColumns, " AND "))

	b = newBinder(t.dialect)
	t.Delete = b.statement("DELETE FROM " + t.Name + " WHERE " + b.assign(t.PKColumns, " AND "))

	b = newBinder(t.dialect)
	sql := t.dialect.UpsertSQL(t.Name, columnNames(t.PKColumns), columnNames(t.NonPKColumns), columnNames(t.Columns),
		func(name string) string { return b.bind(t.ColumnMap[name]) })
	t.Upsert = b.statement(sql)

	t.SelectColumns = strings.Join(qualified, ",")
}

func columnNames(cols []*Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
