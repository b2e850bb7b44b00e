// Package schema describes every resource the inventory engine manages as
// plain data: field descriptors, default view, and permission flags. The
// query, mutation and transfer engines consume these descriptors instead of
// carrying per-resource code paths.
package schema

// Kind is the closed set of value kinds a field can hold.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindSelect   Kind = "select"
	KindDatetime Kind = "datetime"
	KindRelation Kind = "relation"
	KindJSON     Kind = "json"
)

// Format is an additional textual constraint on a text field.
type Format string

const (
	FormatNone Format = ""
	FormatIPv4 Format = "ipv4"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection returns the direction for s, or fallback when s is not one.
func ParseDirection(s string, fallback Direction) Direction {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s)
	}
	return fallback
}

// DatetimeLayout is the fixed textual form used for datetimes in filters,
// exports and filter options.
const DatetimeLayout = "2006-01-02 15:04:05"

// NullSentinel is the filter value meaning "null or empty".
const NullSentinel = "__NULL__"

// Relation points a foreign key field at the resource it references.
type Relation struct {
	Resource      string
	Table         string
	DisplayColumn string
}

// Field describes one column of a resource.
type Field struct {
	Key   string
	Label string
	Kind  Kind

	Sortable   bool
	Filterable bool
	Searchable bool

	// Editable fields appear in create, update, bulk edit and import.
	Editable bool
	Required bool
	Unique   bool

	Options     []string
	Format      Format
	NonNegative bool
	Integer     bool

	// SortColumn orders by a shadow column instead of Key.
	SortColumn string

	Relation *Relation
}

// TextLike reports whether the column stores text, so an empty string is a
// meaningful "empty" value next to NULL.
func (f Field) TextLike() bool {
	switch f.Kind {
	case KindText, KindSelect, KindJSON:
		return true
	}
	return false
}

// HasOption reports whether v is one of the select options.
func (f Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}

// Operation is a write operation gated by a permission flag.
type Operation string

const (
	OpCreate     Operation = "create"
	OpEdit       Operation = "edit"
	OpDelete     Operation = "delete"
	OpBulkEdit   Operation = "bulk_edit"
	OpBulkDelete Operation = "bulk_delete"
	OpImport     Operation = "import"
)

// Permissions lists the write operations a resource disables.
type Permissions struct {
	NoCreate     bool `json:"no_create"`
	NoEdit       bool `json:"no_edit"`
	NoDelete     bool `json:"no_delete"`
	NoBulkEdit   bool `json:"no_bulk_edit"`
	NoBulkDelete bool `json:"no_bulk_delete"`
	NoImport     bool `json:"no_import"`
}

// Allows reports whether op is enabled.
func (p Permissions) Allows(op Operation) bool {
	switch op {
	case OpCreate:
		return !p.NoCreate
	case OpEdit:
		return !p.NoEdit
	case OpDelete:
		return !p.NoDelete
	case OpBulkEdit:
		return !p.NoBulkEdit
	case OpBulkDelete:
		return !p.NoBulkDelete
	case OpImport:
		return !p.NoImport
	}
	return false
}

// Dependent is a child resource whose rows are removed with their parent.
type Dependent struct {
	Resource   string
	ForeignKey string
}

// Counter is a parent column caching how many child rows reference it.
type Counter struct {
	Column     string
	Resource   string
	ForeignKey string
}

// Resource is the schema of one manageable record type.
type Resource struct {
	Name  string
	Title string
	Table string

	// IdentityField names the human-meaningful identifier written to the
	// change log, e.g. an IP address.
	IdentityField string

	Fields         []Field
	DefaultColumns []string
	DefaultSort    string
	DefaultOrder   Direction

	Permissions Permissions
	Dependents  []Dependent
	Counters    []Counter

	// Timestamps marks tables carrying created_at/updated_at.
	Timestamps bool
}

// Field returns the descriptor for key.
func (r *Resource) Field(key string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByLabel resolves a column header back to its field. Keys are
// accepted as well so hand-written files work.
func (r *Resource) FieldByLabel(label string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return r.Field(label)
}

// Keys returns every field key in declaration order.
func (r *Resource) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// EditableFields returns the fields that accept input.
func (r *Resource) EditableFields() []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Editable {
			out = append(out, f)
		}
	}
	return out
}

// Relations returns the relation-typed fields.
func (r *Resource) Relations() []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Kind == KindRelation {
			out = append(out, f)
		}
	}
	return out
}

// VisibleColumns keeps the requested columns that exist, in request order,
// and falls back to the default set when none survive.
func (r *Resource) VisibleColumns(requested []string) []string {
	seen := make(map[string]bool, len(requested))
	var out []string
	for _, c := range requested {
		if _, ok := r.Field(c); ok && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), r.DefaultColumns...)
	}
	return out
}

// ValidColumns keeps the requested columns that exist without a fallback.
func (r *Resource) ValidColumns(requested []string) []string {
	seen := make(map[string]bool, len(requested))
	var out []string
	for _, c := range requested {
		if _, ok := r.Field(c); ok && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
