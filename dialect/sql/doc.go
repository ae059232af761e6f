// Package sql implements the dialect.Driver interface on top of the
// standard database/sql package.
//
// Opening a driver for the embedded engine:
//
//	drv, err := sql.Open(dialect.SQLite, "file:wiki.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// OpenDB wraps an existing *sql.DB instead, which is how mock drivers are
// attached in tests.
package sql
