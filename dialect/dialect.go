package dialect

import (
	"context"
	"fmt"
	"log"
)

// SQLite is the dialect name of the embedded engine.
const SQLite = "sqlite"

// ExecQuerier wraps the two standard database operations.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. If v is a
	// *sql.Result, the execution result is assigned to it.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows. v must be a *Rows
	// of the concrete driver.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the database abstraction the gateway is built on.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx is a transaction scope returned by Driver.Tx.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// DebugDriver is a driver that logs all driver operations before
// delegating to the wrapped driver.
type DebugDriver struct {
	Driver
	log func(...any)
}

// Debug gets a driver and returns a new debug driver logging with
// log.Println.
func Debug(d Driver) Driver {
	return &DebugDriver{d, log.Println}
}

// DebugWithLog gets a driver and a logging function, and returns a new
// debug driver logging every operation through it.
func DebugWithLog(d Driver, logger func(...any)) Driver {
	return &DebugDriver{d, logger}
}

// Exec logs its params and calls the underlying driver Exec method.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(fmt.Sprintf("driver.Exec: query=%v args=%v", query, args))
	return d.Driver.Exec(ctx, query, args, v)
}

// Query logs its params and calls the underlying driver Query method.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(fmt.Sprintf("driver.Query: query=%v args=%v", query, args))
	return d.Driver.Query(ctx, query, args, v)
}

// Tx starts a transaction on the underlying driver and wraps it with a
// logging transaction.
func (d *DebugDriver) Tx(ctx context.Context) (Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	d.log("driver.Tx: started")
	return &DebugTx{tx, d.log}, nil
}

// DebugTx is a transaction that logs all transaction operations.
type DebugTx struct {
	Tx
	log func(...any)
}

// Exec logs its params and calls the underlying transaction Exec method.
func (d *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	d.log(fmt.Sprintf("tx.Exec: query=%v args=%v", query, args))
	return d.Tx.Exec(ctx, query, args, v)
}

// Query logs its params and calls the underlying transaction Query method.
func (d *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	d.log(fmt.Sprintf("tx.Query: query=%v args=%v", query, args))
	return d.Tx.Query(ctx, query, args, v)
}

// Commit logs the commit and calls the underlying transaction Commit.
func (d *DebugTx) Commit() error {
	d.log("tx.Commit")
	return d.Tx.Commit()
}

// Rollback logs the rollback and calls the underlying transaction Rollback.
func (d *DebugTx) Rollback() error {
	d.log("tx.Rollback")
	return d.Tx.Rollback()
}
