package model

// Entity records whether an entity was read from storage. Embed it in mapped
// structs; the materializer marks every entity it fills as loaded, while
// entities built by application code start out not loaded.
type Entity struct {
	loaded bool
}

// IsLoaded reports whether the entity was materialized from a row.
func (e *Entity) IsLoaded() bool {
	return e.loaded
}

func (e *Entity) markLoaded() {
	e.loaded = true
}

// Loader is implemented by every struct embedding Entity.
type Loader interface {
	IsLoaded() bool
}

type loadMarker interface {
	markLoaded()
}

// MarkLoaded flags v as loaded from storage. It is a no-op for values that do
// not embed Entity.
func MarkLoaded(v any) {
	if m, ok := v.(loadMarker); ok {
		m.markLoaded()
	}
}

// Loaded reports whether v embeds Entity and was loaded from storage.
func Loaded(v any) bool {
	l, ok := v.(Loader)
	return ok && l.IsLoaded()
}

// TableNamer overrides the table name derived from the type name.
type TableNamer interface {
	TableName() string
}

// ConcurrencyChecker declares the columns compared for optimistic
// concurrency. Unknown names and primary key columns are ignored.
type ConcurrencyChecker interface {
	ConcurrencyCheck() []string
}
