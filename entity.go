package rowan

import (
	"fmt"
	"strings"

	"github.com/syssam/rowan/schema/field"
)

// Schema is the immutable snapshot of an entity declaration: the table
// name plus the declared columns in declaration order. Every gateway
// operation is parameterized by a *Schema.
type Schema struct {
	label   string
	table   string
	columns []field.Column
	index   map[string]int
}

// NewSchema snapshots the given declaration. It fails with a ConfigError
// if the table name is empty or a column name is empty or declared twice.
func NewSchema(def Definition) (*Schema, error) {
	s := &Schema{
		label: label(def),
		table: def.Table(),
		index: make(map[string]int),
	}
	if s.table == "" {
		return nil, &ConfigError{msg: fmt.Sprintf("%s: table name must be set", s.label)}
	}
	for _, c := range def.Columns() {
		name := c.Name()
		if name == "" {
			return nil, &ConfigError{msg: fmt.Sprintf("%s: column with empty name", s.label)}
		}
		if name == pkColumn {
			return nil, &ConfigError{msg: fmt.Sprintf("%s: column %q is reserved for the primary key", s.label, name)}
		}
		if _, ok := s.index[name]; ok {
			return nil, &ConfigError{msg: fmt.Sprintf("%s: duplicate column %q", s.label, name)}
		}
		s.index[name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It simplifies schema
// variable initialization at package scope.
func MustSchema(def Definition) *Schema {
	s, err := NewSchema(def)
	if err != nil {
		panic(err)
	}
	return s
}

// pkColumn is the engine-assigned primary key present in every table.
const pkColumn = "id"

// label derives the entity label from the declaring type name.
func label(def Definition) string {
	name := fmt.Sprintf("%T", def)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Label returns the entity label used in diagnostics.
func (s *Schema) Label() string { return s.label }

// Table returns the table name.
func (s *Schema) Table() string { return s.table }

// ColumnNames returns the declared column names in declaration order.
// The returned slice is a copy.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name()
	}
	return names
}

// Columns returns the declared column descriptors in declaration order.
// The returned slice is a copy.
func (s *Schema) Columns() []field.Column {
	cols := make([]field.Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// CreateTable emits the CREATE TABLE statement for the schema: the
// engine-assigned primary key followed by the declared columns in
// declaration order. It fails with a ConfigError if the table name is
// unset.
func (s *Schema) CreateTable(ifNotExists bool) (string, error) {
	if s.table == "" {
		return "", &ConfigError{msg: fmt.Sprintf("%s: table name must be set", s.label)}
	}
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.table)
	b.WriteString(" (id INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, c := range s.columns {
		b.WriteString(",")
		b.WriteString(c.Name())
		b.WriteString(" ")
		b.WriteString(c.DDL())
	}
	b.WriteString(")")
	return b.String(), nil
}

// An Entity is one in-memory instance of a schema: an optional store
// assigned id plus one value per declared column. An entity with no id is
// transient; the first Save inserts it and assigns the id, after which it
// never changes.
type Entity struct {
	schema *Schema
	id     int64
	hasID  bool
	values []field.Value
}

// New constructs an entity from a column name to value mapping. An "id"
// key holding an integer sets the id, as when materializing a fetched
// row. Unknown keys are ignored and missing declared columns become null;
// no validation happens at construction.
func (s *Schema) New(values map[string]field.Value) *Entity {
	e := &Entity{schema: s, values: make([]field.Value, len(s.columns))}
	for name, v := range values {
		if name == pkColumn {
			if id, ok := v.AsInt(); ok {
				e.id, e.hasID = id, true
			}
			continue
		}
		if i, ok := s.index[name]; ok {
			e.values[i] = v
		}
	}
	return e
}

// Schema returns the schema the entity belongs to.
func (e *Entity) Schema() *Schema { return e.schema }

// ID returns the store-assigned id. The second return value is false for
// a transient entity.
func (e *Entity) ID() (int64, bool) { return e.id, e.hasID }

// Get returns the value of the named column, or null if the name is not
// declared.
func (e *Entity) Get(name string) field.Value {
	if i, ok := e.schema.index[name]; ok {
		return e.values[i]
	}
	return field.Null()
}

// Set assigns the value of the named column and returns the entity for
// chaining. Setting an undeclared name is a no-op, mirroring the
// permissive constructor.
func (e *Entity) Set(name string, v field.Value) *Entity {
	if i, ok := e.schema.index[name]; ok {
		e.values[i] = v
	}
	return e
}

// Values returns the entity values in column declaration order, suitable
// as a positional parameter list. The returned slice is a copy.
func (e *Entity) Values() []field.Value {
	values := make([]field.Value, len(e.values))
	copy(values, e.values)
	return values
}

// Mapping returns the column name to value mapping of the entity.
func (e *Entity) Mapping() map[string]field.Value {
	m := make(map[string]field.Value, len(e.values))
	for i, c := range e.schema.columns {
		m[c.Name()] = e.values[i]
	}
	return m
}

// String returns a diagnostic rendering of the entity: the label, the id
// if persisted and each column=value pair in declaration order.
func (e *Entity) String() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.schema.label)
	if e.hasID {
		fmt.Fprintf(&b, " id=%d", e.id)
	}
	for i, c := range e.schema.columns {
		fmt.Fprintf(&b, " %s=%s", c.Name(), e.values[i])
	}
	b.WriteString(">")
	return b.String()
}

// args returns the bind-parameter list for the entity values.
func (e *Entity) args() []any {
	args := make([]any, len(e.values))
	for i, v := range e.values {
		args[i] = v
	}
	return args
}
