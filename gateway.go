package rowan

import (
	"context"
	"errors"
	"strings"

	"github.com/syssam/rowan/dialect"
	"github.com/syssam/rowan/dialect/sql"
	"github.com/syssam/rowan/schema/field"

	_ "modernc.org/sqlite"
)

// Gateway owns the single store connection and exposes the schema and
// row operations. Every operation runs in its own transaction scope:
// begin before the statement, commit on normal return, rollback and
// propagate on failure. Distinct calls are not atomic with respect to
// each other, and the gateway performs no locking of its own; callers
// confine it to one goroutine or serialize access externally.
type Gateway struct {
	drv dialect.Driver
}

// Open opens the embedded store at the given path (a file path,
// ":memory:", or a file: DSN) and returns a gateway holding a single
// connection for its lifetime.
func Open(path string) (*Gateway, error) {
	drv, err := sql.Open(dialect.SQLite, path)
	if err != nil {
		return nil, err
	}
	// One connection for the gateway lifetime.
	drv.DB().SetMaxOpenConns(1)
	return &Gateway{drv: drv}, nil
}

// NewGateway returns a gateway on top of an existing driver, typically a
// debug-wrapped or mock driver.
func NewGateway(drv dialect.Driver) *Gateway {
	return &Gateway{drv: drv}
}

// Driver returns the underlying driver.
func (g *Gateway) Driver() dialect.Driver { return g.drv }

// Close closes the store connection. The gateway must not be used after
// Close.
func (g *Gateway) Close() error { return g.drv.Close() }

// inTx runs fn inside a transaction scope.
func (g *Gateway) inTx(ctx context.Context, fn func(dialect.Tx) error) error {
	tx, err := g.drv.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return err
	}
	return tx.Commit()
}

// A CreateOption configures CreateTable.
type CreateOption func(*createOptions)

type createOptions struct {
	ifNotExists bool
	recreate    bool
}

// WithRecreate drops the table before creating it.
func WithRecreate() CreateOption {
	return func(o *createOptions) { o.recreate = true }
}

// WithoutIfNotExists omits the IF NOT EXISTS clause, so creating an
// existing table fails.
func WithoutIfNotExists() CreateOption {
	return func(o *createOptions) { o.ifNotExists = false }
}

// CreateTable creates the schema table from its generated DDL. By default
// the statement carries IF NOT EXISTS; see WithoutIfNotExists and
// WithRecreate.
func (g *Gateway) CreateTable(ctx context.Context, s *Schema, opts ...CreateOption) error {
	cfg := createOptions{ifNotExists: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.recreate {
		if err := g.DropTable(ctx, s); err != nil {
			return err
		}
	}
	ddl, err := s.CreateTable(cfg.ifNotExists)
	if err != nil {
		return err
	}
	return g.inTx(ctx, func(tx dialect.Tx) error {
		if err := tx.Exec(ctx, ddl, []any{}, nil); err != nil {
			return &ExecError{op: "create table " + s.table, err: err}
		}
		return nil
	})
}

// DropTable drops the schema table. It fails if the table does not exist.
func (g *Gateway) DropTable(ctx context.Context, s *Schema) error {
	if s.table == "" {
		return &ConfigError{msg: s.label + ": table name must be set"}
	}
	return g.inTx(ctx, func(tx dialect.Tx) error {
		if err := tx.Exec(ctx, "DROP TABLE "+s.table, []any{}, nil); err != nil {
			return &ExecError{op: "drop table " + s.table, err: err}
		}
		return nil
	})
}

// A Cond is one exact-match lookup condition for Get.
type Cond struct {
	name  string
	value field.Value
}

// Eq returns a condition matching rows whose named column equals the
// given value. The value is always bound as a parameter.
func Eq(name string, v field.Value) Cond {
	return Cond{name: name, value: v}
}

// String returns the diagnostic rendering of the condition.
func (c Cond) String() string {
	return c.name + "=" + c.value.Literal()
}

// Get fetches the first row matching all conditions, joined by AND in the
// given order, and materializes it into an entity. At least one condition
// is required; zero conditions fail with an ArgumentError before the
// store is touched. Zero matching rows fail with a NotFoundError carrying
// the entity label and the conditions. Rows beyond the first are silently
// ignored.
func (g *Gateway) Get(ctx context.Context, s *Schema, conds ...Cond) (*Entity, error) {
	if len(conds) == 0 {
		return nil, &ArgumentError{msg: "lookup conditions for Get are required"}
	}
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(s.table)
	b.WriteString(" WHERE ")
	args := make([]any, len(conds))
	for i, c := range conds {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(c.name)
		b.WriteString(" = ?")
		args[i] = c.value
	}
	var e *Entity
	err := g.inTx(ctx, func(tx dialect.Tx) error {
		rows := &sql.Rows{}
		if err := tx.Query(ctx, b.String(), args, rows); err != nil {
			return &ExecError{op: "get " + s.table, err: err}
		}
		defer rows.Close()
		columns, err := rows.Columns()
		if err != nil {
			return &ExecError{op: "get " + s.table, err: err}
		}
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return &ExecError{op: "get " + s.table, err: err}
			}
			return &NotFoundError{label: s.label, conds: conds}
		}
		e, err = s.scanRow(columns, rows)
		if err != nil {
			return &ExecError{op: "get " + s.table, err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// A SelectOption configures Select and SelectSQL.
type SelectOption func(*selectOptions)

type selectOptions struct {
	where    string
	args     []any
	trailing string
}

// Where filters the selection with the given clause. The clause text is
// trusted schema-author input; all data values must go through args,
// which are bound as parameters.
func Where(clause string, args ...field.Value) SelectOption {
	return func(o *selectOptions) {
		o.where = clause
		o.args = make([]any, len(args))
		for i, v := range args {
			o.args[i] = v
		}
	}
}

// Append appends raw trailing SQL, such as ORDER BY or LIMIT, after the
// WHERE clause. The text is trusted schema-author input and is never
// derived from external input.
func Append(clause string) SelectOption {
	return func(o *selectOptions) { o.trailing = clause }
}

// SelectSQL builds the statement Select would execute, with its bind
// parameters, without executing it.
func SelectSQL(s *Schema, opts ...SelectOption) (string, []any) {
	var cfg selectOptions
	for _, opt := range opts {
		opt(&cfg)
	}
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(s.table)
	if cfg.where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(cfg.where)
	}
	if cfg.trailing != "" {
		b.WriteString(" ")
		b.WriteString(cfg.trailing)
	}
	return b.String(), cfg.args
}

// Select fetches every row matching the options and materializes each
// into an entity. With no options the whole table is returned. Without an
// explicit ORDER BY in Append, row order is engine-dependent and must not
// be relied upon.
func (g *Gateway) Select(ctx context.Context, s *Schema, opts ...SelectOption) ([]*Entity, error) {
	query, args := SelectSQL(s, opts...)
	if args == nil {
		args = []any{}
	}
	var result []*Entity
	err := g.inTx(ctx, func(tx dialect.Tx) error {
		rows := &sql.Rows{}
		if err := tx.Query(ctx, query, args, rows); err != nil {
			return &ExecError{op: "select " + s.table, err: err}
		}
		defer rows.Close()
		columns, err := rows.Columns()
		if err != nil {
			return &ExecError{op: "select " + s.table, err: err}
		}
		for rows.Next() {
			e, err := s.scanRow(columns, rows)
			if err != nil {
				return &ExecError{op: "select " + s.table, err: err}
			}
			result = append(result, e)
		}
		if err := rows.Err(); err != nil {
			return &ExecError{op: "select " + s.table, err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Save persists the entity and returns it. A transient entity is
// inserted and receives the store-assigned id; a persisted entity has its
// full row rewritten in place, every declared column included, keeping
// the same id.
func (g *Gateway) Save(ctx context.Context, e *Entity) (*Entity, error) {
	if _, ok := e.ID(); ok {
		if err := g.update(ctx, e); err != nil {
			return nil, err
		}
		return e, nil
	}
	if err := g.insert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// update rewrites the full row for the existing id.
func (g *Gateway) update(ctx context.Context, e *Entity) error {
	s := e.schema
	var b strings.Builder
	b.WriteString("REPLACE INTO ")
	b.WriteString(s.table)
	b.WriteString(" (id, ")
	b.WriteString(strings.Join(s.ColumnNames(), ", "))
	b.WriteString(") VALUES (?")
	b.WriteString(strings.Repeat(", ?", len(s.columns)))
	b.WriteString(")")
	args := append([]any{e.id}, e.args()...)
	return g.inTx(ctx, func(tx dialect.Tx) error {
		if err := tx.Exec(ctx, b.String(), args, nil); err != nil {
			return &ExecError{op: "update " + s.table, err: err}
		}
		return nil
	})
}

// insert adds a new row and stores the engine-assigned primary key into
// the entity.
func (g *Gateway) insert(ctx context.Context, e *Entity) error {
	s := e.schema
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.table)
	b.WriteString(" (")
	b.WriteString(strings.Join(s.ColumnNames(), ", "))
	b.WriteString(") VALUES (")
	if len(s.columns) > 0 {
		b.WriteString("?")
		b.WriteString(strings.Repeat(", ?", len(s.columns)-1))
	}
	b.WriteString(")")
	return g.inTx(ctx, func(tx dialect.Tx) error {
		var res sql.Result
		if err := tx.Exec(ctx, b.String(), e.args(), &res); err != nil {
			return &ExecError{op: "insert " + s.table, err: err}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &ExecError{op: "insert " + s.table, err: err}
		}
		e.id, e.hasID = id, true
		return nil
	})
}

// scanRow materializes the current row into an entity through the
// permissive mapping constructor; the id column becomes the entity id.
func (s *Schema) scanRow(columns []string, rows *sql.Rows) (*Entity, error) {
	values := make([]field.Value, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	m := make(map[string]field.Value, len(columns))
	for i, name := range columns {
		m[name] = values[i]
	}
	return s.New(m), nil
}
