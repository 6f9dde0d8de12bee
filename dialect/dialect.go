package dialect

import (
	"strings"
	"sync"
)

// Dialect represents the database-specific parts of SQL generation.
// Each supported driver (Oracle, PostgreSQL, MySQL, SQLite, SQL Server) implements it.
type Dialect interface {
	// Name returns the canonical dialect name (e.g. "oracle").
	Name() string
	// Quote wraps a column name in database-specific quotes.
	Quote(name string) string
	// Placeholder returns the bind token for the zero-based bind position index.
	Placeholder(index int) string
	// UpsertSQL renders an insert-or-update statement keyed on the primary key columns.
	// bind is called once per bound column, in textual order, and returns its placeholder.
	UpsertSQL(table string, keys, rest, all []string, bind func(column string) string) string
	// DeleteSQL renders a DELETE over table restricted by an already rendered predicate.
	// An empty where deletes every row.
	DeleteSQL(table, where string) string
	// TranslateError maps driver errors onto ErrDuplicateKey / ErrForeignKey.
	// Errors it does not recognise are returned unchanged.
	TranslateError(err error) error
}

// EmptyStringNull is implemented by dialects whose database stores '' as NULL.
type EmptyStringNull interface {
	EmptyStringIsNull() bool
}

// FoundRows is implemented by dialects whose driver reports changed rather
// than matched rows for UPDATE unless the DSN asks for matched rows.
type FoundRows interface {
	// FoundRowsDSN returns dsn set up to report matched rows.
	FoundRowsDSN(dsn string) (string, error)
}

var (
	mu       sync.RWMutex
	dialects = make(map[string]Dialect)
)

// Register registers a dialect under a driver name
func Register(name string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name
func Get(name string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := dialects[name]
	return d, ok
}

// MustGet is like Get but panics when no dialect is registered under name.
func MustGet(name string) Dialect {
	d, ok := Get(name)
	if !ok {
		panic("dialect: unknown dialect " + name)
	}
	return d
}

// quoteWith doubles any embedded quote character and wraps name in it.
func quoteWith(q, name string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// assignments renders `col=<bind>` pairs joined by sep.
func assignments(quote func(string) string, cols []string, sep string, bind func(string) string) string {
	var sb strings.Builder
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(quote(c))
		sb.WriteByte('=')
		sb.WriteString(bind(c))
	}
	return sb.String()
}

// quotedList renders a comma separated list of quoted names.
func quotedList(quote func(string) string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ",")
}

// bindList renders one placeholder per column, comma separated.
func bindList(cols []string, bind func(string) string) string {
	binds := make([]string, len(cols))
	for i, c := range cols {
		binds[i] = bind(c)
	}
	return strings.Join(binds, ",")
}

// insertHead renders the `INSERT ... VALUES(...)` head shared by the
// ON CONFLICT / ON DUPLICATE KEY upsert shapes.
func insertHead(quote func(string) string, table string, all []string, bind func(string) string) string {
	return "INSERT INTO " + table + "(" + quotedList(quote, all) + ") VALUES(" + bindList(all, bind) + ")"
}

// plainDelete is the DELETE shape shared by every dialect except Oracle.
func plainDelete(table, where string) string {
	if where == "" {
		return "DELETE FROM " + table
	}
	return "DELETE FROM " + table + " WHERE " + where
}
