package field

import "strings"

// A Type is a column storage class.
type Type uint8

// Storage classes supported by the embedded engine.
const (
	TypeInvalid Type = iota
	TypeText
	TypeInt
	TypeFloat
	TypeBytes
)

var typeKeywords = [...]string{
	TypeInvalid: "INVALID",
	TypeText:    "TEXT",
	TypeInt:     "INTEGER",
	TypeFloat:   "REAL",
	TypeBytes:   "BLOB",
}

// String returns the DDL keyword for the storage class.
func (t Type) String() string {
	if int(t) < len(typeKeywords) {
		return typeKeywords[t]
	}
	return typeKeywords[TypeInvalid]
}

// Column describes one table column: its name, storage class, nullability,
// default, uniqueness and optional raw constraint text. Columns are values;
// builder methods return modified copies, so a Column shared between
// schemas cannot be mutated after construction.
type Column struct {
	name       string
	typ        Type
	nullable   bool
	def        Value
	hasDefault bool
	unique     bool
	constraint string
}

// Text returns a TEXT column descriptor.
func Text(name string) Column { return Column{name: name, typ: TypeText} }

// Int returns an INTEGER column descriptor.
func Int(name string) Column { return Column{name: name, typ: TypeInt} }

// Float returns a REAL column descriptor.
func Float(name string) Column { return Column{name: name, typ: TypeFloat} }

// Blob returns a BLOB column descriptor.
func Blob(name string) Column { return Column{name: name, typ: TypeBytes} }

// Time returns a descriptor for a timestamp stored as TEXT. The engine has
// no native temporal type; no parsing or formatting is performed.
func Time(name string) Column { return Column{name: name, typ: TypeText} }

// Nullable marks the column as accepting NULL.
func (c Column) Nullable() Column {
	c.nullable = true
	return c
}

// Default sets the column default. The value is rendered as a SQL literal
// in the DDL fragment.
func (c Column) Default(v Value) Column {
	c.def = v
	c.hasDefault = true
	return c
}

// Unique adds a UNIQUE constraint to the column.
func (c Column) Unique() Column {
	c.unique = true
	return c
}

// Constraint appends raw constraint text to the DDL fragment, verbatim and
// unparameterized. The text is trusted schema-author input; passing
// external input here is an injection hazard.
func (c Column) Constraint(raw string) Column {
	c.constraint = raw
	return c
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Type returns the column storage class.
func (c Column) Type() Type { return c.typ }

// DDL renders the column definition fragment following the column name:
// storage keyword, nullability, default literal, uniqueness and raw
// constraint text, in that order.
func (c Column) DDL() string {
	var b strings.Builder
	b.WriteString(c.typ.String())
	if c.nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if c.hasDefault {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.def.Literal())
	}
	if c.unique {
		b.WriteString(" UNIQUE")
	}
	if c.constraint != "" {
		b.WriteString(" ")
		b.WriteString(c.constraint)
	}
	return b.String()
}
