package rowan_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rowan"
	"github.com/syssam/rowan/dialect"
	"github.com/syssam/rowan/schema/field"

	rsql "github.com/syssam/rowan/dialect/sql"
)

// openGateway opens a private in-memory store for one test.
func openGateway(t *testing.T) *rowan.Gateway {
	t.Helper()
	gw, err := rowan.Open(fmt.Sprintf("file:%s?mode=memory", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, gw.Close()) })
	return gw
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	users := rowan.MustSchema(User{})
	require.NoError(t, gw.CreateTable(ctx, users))

	bob := users.New(map[string]field.Value{
		"username": field.Text("bob"),
		"password": field.Text("secret"),
	})
	saved := bob.Mapping()
	_, err := gw.Save(ctx, bob)
	require.NoError(t, err)
	id, persisted := bob.ID()
	require.True(t, persisted)
	assert.Positive(t, id)

	got, err := gw.Get(ctx, users, rowan.Eq("id", field.Int(id)))
	require.NoError(t, err)
	assert.Equal(t, saved, got.Mapping())
	gotID, _ := got.ID()
	assert.Equal(t, id, gotID)
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	pages := rowan.MustSchema(Page{})
	require.NoError(t, gw.CreateTable(ctx, pages))

	first := pages.New(map[string]field.Value{"title": field.Text("a"), "body": field.Text("1")})
	second := pages.New(map[string]field.Value{"title": field.Text("b"), "body": field.Text("2")})
	_, firstPersisted := first.ID()
	require.False(t, firstPersisted)

	_, err := gw.Save(ctx, first)
	require.NoError(t, err)
	_, err = gw.Save(ctx, second)
	require.NoError(t, err)

	id1, ok := first.ID()
	require.True(t, ok)
	id2, ok := second.ID()
	require.True(t, ok)
	assert.Positive(t, id1)
	assert.Greater(t, id2, id1)
}

func TestUpdatePreservesID(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	pages := rowan.MustSchema(Page{})
	require.NoError(t, gw.CreateTable(ctx, pages))

	home := pages.New(map[string]field.Value{"title": field.Text("home"), "body": field.Text("old")})
	_, err := gw.Save(ctx, home)
	require.NoError(t, err)
	id, _ := home.ID()

	home.Set("body", field.Text("new"))
	_, err = gw.Save(ctx, home)
	require.NoError(t, err)
	idAfter, _ := home.ID()
	assert.Equal(t, id, idAfter)

	got, err := gw.Get(ctx, pages, rowan.Eq("id", field.Int(id)))
	require.NoError(t, err)
	body, _ := got.Get("body").AsText()
	assert.Equal(t, "new", body)

	// Still exactly one row.
	all, err := gw.Select(ctx, pages)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	users := rowan.MustSchema(User{})
	require.NoError(t, gw.CreateTable(ctx, users))

	_, err := gw.Get(ctx, users, rowan.Eq("username", field.Text("nobody")))
	require.Error(t, err)
	assert.True(t, rowan.IsNotFound(err))
	assert.EqualError(t, err, "rowan: User not found (username='nobody')")

	var nfe *rowan.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "User", nfe.Label())
	require.Len(t, nfe.Conds(), 1)
	assert.Equal(t, "username='nobody'", nfe.Conds()[0].String())
}

func TestGetFirstOfMany(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	users := rowan.MustSchema(User{})
	require.NoError(t, gw.CreateTable(ctx, users))

	for _, name := range []string{"bob", "alice"} {
		u := users.New(map[string]field.Value{
			"username": field.Text(name),
			"password": field.Text("shared"),
		})
		_, err := gw.Save(ctx, u)
		require.NoError(t, err)
	}

	// Extra matching rows are ignored; only the first comes back.
	got, err := gw.Get(ctx, users, rowan.Eq("password", field.Text("shared")))
	require.NoError(t, err)
	pw, _ := got.Get("password").AsText()
	assert.Equal(t, "shared", pw)
}

func TestGetWithoutConds(t *testing.T) {
	t.Parallel()

	// A mock driver with no expectations proves the store is untouched.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gw := rowan.NewGateway(rsql.OpenDB(dialect.SQLite, db))
	users := rowan.MustSchema(User{})

	_, err = gw.Get(context.Background(), users)
	require.Error(t, err)
	assert.True(t, rowan.IsArgumentError(err))
	assert.EqualError(t, err, "rowan: lookup conditions for Get are required")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueViolation(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	users := rowan.MustSchema(User{})
	require.NoError(t, gw.CreateTable(ctx, users))

	first := users.New(map[string]field.Value{"username": field.Text("bob"), "password": field.Text("a")})
	_, err := gw.Save(ctx, first)
	require.NoError(t, err)

	dup := users.New(map[string]field.Value{"username": field.Text("bob"), "password": field.Text("b")})
	_, err = gw.Save(ctx, dup)
	require.Error(t, err)
	assert.True(t, rowan.IsExecError(err))
	_, persisted := dup.ID()
	assert.False(t, persisted)

	// The table keeps exactly one row with that username.
	all, err := gw.Select(ctx, users, rowan.Where("username = ?", field.Text("bob")))
	require.NoError(t, err)
	require.Len(t, all, 1)
	pw, _ := all[0].Get("password").AsText()
	assert.Equal(t, "a", pw)
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	versions := rowan.MustSchema(PageVersion{})
	require.NoError(t, gw.CreateTable(ctx, versions))

	for i, body := range []string{"first", "second", "third"} {
		v := versions.New(map[string]field.Value{
			"body":     field.Text(body),
			"user_id":  field.Int(int64(i % 2)),
			"saved_at": field.Text("2024-03-01T12:00:00Z"),
		})
		_, err := gw.Save(ctx, v)
		require.NoError(t, err)
	}

	// Filtered selection returns exactly the matching rows.
	odd, err := gw.Select(ctx, versions,
		rowan.Where("user_id = ?", field.Int(1)),
		rowan.Append("ORDER BY id"),
	)
	require.NoError(t, err)
	require.Len(t, odd, 1)
	body, _ := odd[0].Get("body").AsText()
	assert.Equal(t, "second", body)

	// No filter returns the whole table; ordering pinned explicitly.
	all, err := gw.Select(ctx, versions, rowan.Append("ORDER BY id"))
	require.NoError(t, err)
	require.Len(t, all, 3)
	bodies := make([]string, len(all))
	for i, e := range all {
		bodies[i], _ = e.Get("body").AsText()
	}
	assert.Equal(t, []string{"first", "second", "third"}, bodies)

	// No match yields an empty result, not an error.
	none, err := gw.Select(ctx, versions, rowan.Where("user_id = ?", field.Int(9)))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSelectSQL(t *testing.T) {
	t.Parallel()

	versions := rowan.MustSchema(PageVersion{})

	query, args := rowan.SelectSQL(versions)
	assert.Equal(t, "SELECT * FROM page_versions", query)
	assert.Empty(t, args)

	query, args = rowan.SelectSQL(versions,
		rowan.Where("user_id = ? AND body != ?", field.Int(1), field.Text("")),
		rowan.Append("ORDER BY saved_at DESC LIMIT 10"),
	)
	assert.Equal(t, "SELECT * FROM page_versions WHERE user_id = ? AND body != ? ORDER BY saved_at DESC LIMIT 10", query)
	assert.Equal(t, []any{field.Int(1), field.Text("")}, args)
}

func TestCreateTableOptions(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	pages := rowan.MustSchema(Page{})

	require.NoError(t, gw.CreateTable(ctx, pages))
	// IF NOT EXISTS makes re-creation a no-op.
	require.NoError(t, gw.CreateTable(ctx, pages))

	// Without it, creating an existing table fails.
	err := gw.CreateTable(ctx, pages, rowan.WithoutIfNotExists())
	require.Error(t, err)
	assert.True(t, rowan.IsExecError(err))

	// Recreate drops existing rows.
	home := pages.New(map[string]field.Value{"title": field.Text("home"), "body": field.Text("x")})
	_, err = gw.Save(ctx, home)
	require.NoError(t, err)
	require.NoError(t, gw.CreateTable(ctx, pages, rowan.WithRecreate()))
	all, err := gw.Select(ctx, pages)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDropTable(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	pages := rowan.MustSchema(Page{})

	require.NoError(t, gw.CreateTable(ctx, pages))
	require.NoError(t, gw.DropTable(ctx, pages))

	// Dropping a missing table fails.
	err := gw.DropTable(ctx, pages)
	require.Error(t, err)
	assert.True(t, rowan.IsExecError(err))
}

func TestSaveRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gw := rowan.NewGateway(rsql.OpenDB(dialect.SQLite, db))
	users := rowan.MustSchema(User{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("bob", "secret").
		WillReturnError(fmt.Errorf("disk I/O error"))
	mock.ExpectRollback()

	bob := users.New(map[string]field.Value{
		"username": field.Text("bob"),
		"password": field.Text("secret"),
	})
	_, err = gw.Save(context.Background(), bob)
	require.Error(t, err)
	assert.True(t, rowan.IsExecError(err))
	assert.ErrorContains(t, err, "disk I/O error")
	_, persisted := bob.ID()
	assert.False(t, persisted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobAndNullRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := openGateway(t)
	blobs := rowan.MustSchema(blobDef{})
	require.NoError(t, gw.CreateTable(ctx, blobs))

	e := blobs.New(map[string]field.Value{
		"payload": field.Bytes([]byte{0x00, 0x01, 0xff}),
		"ratio":   field.Float(0.5),
	})
	_, err := gw.Save(ctx, e)
	require.NoError(t, err)
	id, _ := e.ID()

	got, err := gw.Get(ctx, blobs, rowan.Eq("id", field.Int(id)))
	require.NoError(t, err)
	payload, _ := got.Get("payload").AsBytes()
	assert.Equal(t, []byte{0x00, 0x01, 0xff}, payload)
	ratio, _ := got.Get("ratio").AsFloat()
	assert.Equal(t, 0.5, ratio)
	assert.True(t, got.Get("note").IsNull())
}

type blobDef struct{}

func (blobDef) Table() string { return "blobs" }

func (blobDef) Columns() []field.Column {
	return []field.Column{
		field.Blob("payload"),
		field.Float("ratio"),
		field.Text("note").Nullable(),
	}
}
