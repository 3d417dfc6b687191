package records

// Kind describes how a field's raw CSV value is typed and normalized.
type Kind int

const (
	Text Kind = iota
	Date
	Bool
	Number
	Enum // small closed enumeration stored as integer
)

// Field binds an external CSV column to an internal record field name.
type Field struct {
	Column string // external snake_case column
	Name   string // internal camelCase field
	Kind   Kind
}

// Registry is the fixed, ordered, bidirectional column/field correspondence
// for one entity. Order matters: it is the export header order.
type Registry struct {
	fields []Field
	byName map[string]Field
	byCol  map[string]Field
}

func NewRegistry(fields []Field) *Registry {
	r := &Registry{
		fields: fields,
		byName: make(map[string]Field, len(fields)),
		byCol:  make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		r.byName[f.Name] = f
		r.byCol[f.Column] = f
	}
	return r
}

// Fields returns the registered fields in export order.
func (r *Registry) Fields() []Field {
	return r.fields
}

// Columns returns the external column names in export order.
func (r *Registry) Columns() []string {
	cols := make([]string, len(r.fields))
	for i, f := range r.fields {
		cols[i] = f.Column
	}
	return cols
}

// Names returns the internal field names in export order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a field by its internal name.
func (r *Registry) Lookup(name string) (Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// LookupColumn finds a field by its external column name.
func (r *Registry) LookupColumn(col string) (Field, bool) {
	f, ok := r.byCol[col]
	return f, ok
}

// Has reports whether the internal field name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}
