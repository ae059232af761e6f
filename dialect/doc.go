// Package dialect defines the database abstraction the Rowan gateway is
// built on.
//
// # Driver Interface
//
// The Driver interface covers everything the gateway needs from the
// underlying engine:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface is the per-operation transaction scope:
//
//	type Tx interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Commit() error
//	    Rollback() error
//	}
//
// The dialect/sql sub-package implements Driver on top of database/sql.
//
// # Debug Driver
//
// Debug wraps a driver so that every statement and transaction event is
// logged before being delegated:
//
//	drv, err := sql.Open(dialect.SQLite, "wiki.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gw := rowan.NewGateway(dialect.Debug(drv))
//
// DebugWithLog accepts a custom logging function for integration with the
// application's logger.
package dialect
