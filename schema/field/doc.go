// Package field provides column descriptors for Rowan schemas.
//
// A column descriptor carries one column's storage class and constraints,
// and renders itself as a DDL fragment. Descriptors are built fluently and
// are immutable values; every builder method returns a modified copy:
//
//	field.Text("title").Unique()
//	field.Int("age").Nullable()
//	field.Float("score").Default(field.Float(0))
//	field.Time("saved_at")
//	field.Int("user_id").Constraint("REFERENCES users(id)")
//
// # Storage Classes
//
// Four storage classes are supported, mapping to the SQLite column type
// keywords:
//
//	field.Text  -> TEXT
//	field.Int   -> INTEGER
//	field.Float -> REAL
//	field.Blob  -> BLOB
//
// field.Time is a convenience for timestamps stored as TEXT. No parsing or
// formatting is performed; callers decide the textual representation.
//
// # Values
//
// The Value type is a closed variant (null, integer, float, text, bytes)
// shared by column defaults and entity field values. It implements both
// driver.Valuer and sql.Scanner, so the same representation is used for
// parameter binding, row materialization and DEFAULT literal rendering.
//
// # Raw Constraints
//
// Constraint text is appended to the DDL fragment verbatim and is never
// parameterized. It must come from the schema author, not from external
// input.
package field
