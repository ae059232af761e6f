package field

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type kind uint8

const (
	kindNull kind = iota
	kindInt
	kindFloat
	kindText
	kindBytes
)

// Value is the closed set of values a column can hold: null, integer,
// float, text or bytes. The zero Value is null.
type Value struct {
	kind kind
	i    int64
	f    float64
	s    string
	b    []byte
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: kindInt, i: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: kindFloat, f: f} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: kindText, s: s} }

// Bytes returns a bytes Value.
func Bytes(b []byte) Value { return Value{kind: kindBytes, b: b} }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == kindNull }

// AsInt returns the integer held by v. The second return value is false
// if v does not hold an integer.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == kindInt }

// AsFloat returns the float held by v. The second return value is false
// if v does not hold a float.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == kindFloat }

// AsText returns the text held by v. The second return value is false
// if v does not hold text.
func (v Value) AsText() (string, bool) { return v.s, v.kind == kindText }

// AsBytes returns the bytes held by v. The second return value is false
// if v does not hold bytes.
func (v Value) AsBytes() ([]byte, bool) { return v.b, v.kind == kindBytes }

// Value implements driver.Valuer. It is the parameter-binding
// representation of v.
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case kindInt:
		return v.i, nil
	case kindFloat:
		return v.f, nil
	case kindText:
		return v.s, nil
	case kindBytes:
		return v.b, nil
	default:
		return nil, nil
	}
}

// Scan implements sql.Scanner, materializing a driver value into the
// closed variant. Timestamps returned by the engine as time.Time are
// stored as RFC 3339 text, matching the TEXT storage of field.Time.
func (v *Value) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = Null()
	case int64:
		*v = Int(s)
	case float64:
		*v = Float(s)
	case string:
		*v = Text(s)
	case []byte:
		b := make([]byte, len(s))
		copy(b, s)
		*v = Bytes(b)
	case time.Time:
		*v = Text(s.Format(time.RFC3339))
	default:
		return fmt.Errorf("field: cannot scan %T into Value", src)
	}
	return nil
}

// Literal renders v as a SQL literal for use in DDL default clauses.
// Text is single-quoted with embedded quotes doubled; bytes use the
// X'..' blob notation. The rendering is exhaustive over the variant, so
// every Value has a safe literal form.
func (v Value) Literal() string {
	switch v.kind {
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case kindText:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	case kindBytes:
		return "X'" + strings.ToUpper(hex.EncodeToString(v.b)) + "'"
	default:
		return "NULL"
	}
}

// String returns a diagnostic rendering of v.
func (v Value) String() string {
	switch v.kind {
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case kindText:
		return v.s
	case kindBytes:
		return fmt.Sprintf("0x%x", v.b)
	default:
		return "<nil>"
	}
}
