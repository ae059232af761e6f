// Package rowan is a minimal record mapper for the embedded SQLite engine.
//
// Entity types declare their table name and an ordered set of column
// descriptors; rowan turns the declaration into table DDL and moves rows
// in and out of the store without hand-written SQL for the common cases.
//
// # Declaring Entities
//
// A concrete entity type implements Definition:
//
//	type Page struct{}
//
//	func (Page) Table() string { return "pages" }
//
//	func (Page) Columns() []field.Column {
//	    return []field.Column{
//	        field.Text("title").Unique(),
//	        field.Text("body"),
//	    }
//	}
//
// NewSchema snapshots the declaration into an immutable *Schema used by
// every gateway operation:
//
//	pages := rowan.MustSchema(Page{})
//
// # Using the Gateway
//
//	gw, err := rowan.Open("wiki.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gw.Close()
//
//	if err := gw.CreateTable(ctx, pages); err != nil {
//	    log.Fatal(err)
//	}
//	home := pages.New(map[string]field.Value{
//	    "title": field.Text("home"),
//	    "body":  field.Text("welcome"),
//	})
//	if _, err := gw.Save(ctx, home); err != nil {
//	    log.Fatal(err)
//	}
//	got, err := gw.Get(ctx, pages, rowan.Eq("title", field.Text("home")))
//
// Save inserts transient entities and rewrites the full row for persisted
// ones; the id assigned by the store on first insert never changes.
//
// The gateway holds a single connection and is not safe for concurrent use
// without external serialization. Each operation runs in its own
// transaction; distinct calls are not atomic with respect to each other.
package rowan

import "github.com/syssam/rowan/schema/field"

// Definition is the schema declaration surface implemented by concrete
// entity types: a non-empty table name and the ordered column descriptors.
type Definition interface {
	Table() string
	Columns() []field.Column
}
