package memdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/modelkit"
	"gorm.io/modelkit/schema"
)

func newWidgets(t *testing.T) *DB {
	db := New()
	db.CreateTable("widgets",
		schema.Column{Name: "id", Type: schema.Int, PrimaryKey: true, AutoIncrement: true},
		schema.Column{Name: "name", Type: schema.String},
		schema.Column{Name: "size", Type: schema.Int, Default: int64(1)},
	)
	require.NoError(t, db.Seed("widgets",
		map[string]interface{}{"name": "a", "size": int64(3)},
		map[string]interface{}{"name": "b", "size": int64(1)},
		map[string]interface{}{"name": "c"},
	))
	return db
}

func TestInsertAutoIncrement(t *testing.T) {
	db := newWidgets(t)
	ctx := context.Background()

	id, err := db.From("widgets").Insert(ctx, map[string]interface{}{"name": "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	row, err := db.From("widgets").Where(map[string]interface{}{"name": "c"}).First(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), row["id"])
	assert.Equal(t, int64(1), row["size"])

	_, err = db.From("widgets").Insert(ctx, map[string]interface{}{"color": "red"})
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	db := newWidgets(t)
	ctx := context.Background()

	rows, err := db.From("widgets").Order("-size", "name").Select("name").All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"name": "a"}, {"name": "b"}, {"name": "c"}}, rows)

	count, err := db.From("widgets").Where(map[string]interface{}{"size": 1}).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = db.From("widgets").Where(map[string]interface{}{"name": "z"}).First(ctx)
	assert.ErrorIs(t, err, modelkit.ErrRecordNotFound)

	columns, err := db.From("widgets").Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "size"}, columns)
}

func TestWhereDoesNotModifyReceiver(t *testing.T) {
	db := newWidgets(t)
	ds := db.From("widgets")
	filtered := ds.Where(map[string]interface{}{"name": "a"})

	count, err := ds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = filtered.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateDelete(t *testing.T) {
	db := newWidgets(t)
	ctx := context.Background()

	n, err := db.From("widgets").Where(map[string]interface{}{"size": int64(1)}).Update(ctx, map[string]interface{}{"size": int64(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = db.From("widgets").Where(map[string]interface{}{"size": int64(5)}).Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, db.Rows("widgets"), 1)
}

func TestSchema(t *testing.T) {
	db := newWidgets(t)
	ctx := context.Background()

	columns, err := db.Schema(ctx, "widgets")
	require.NoError(t, err)
	assert.Len(t, columns, 3)
	assert.True(t, columns[0].PrimaryKey)

	_, err = db.Schema(ctx, "gadgets")
	assert.ErrorIs(t, err, ErrNoTable)

	db.SchemaUnsupported = true
	_, err = db.Schema(ctx, "widgets")
	assert.ErrorIs(t, err, modelkit.ErrSchemaUnsupported)
	assert.Equal(t, 3, db.SchemaCalls)
}

func TestTransaction(t *testing.T) {
	db := newWidgets(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Transaction(ctx, func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		if _, err := db.From("widgets").Delete(ctx); err != nil {
			return err
		}
		return db.Transaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, db.TxCount)
	assert.Len(t, db.Rows("widgets"), 3)

	db.CommitErr = boom
	err = db.Transaction(ctx, func(ctx context.Context) error {
		_, err := db.From("widgets").Delete(ctx)
		return err
	})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, db.Rows("widgets"), 3)
}

func TestFetch(t *testing.T) {
	db := New()
	db.SetResult("SELECT 1 AS one", []string{"one"}, map[string]interface{}{"one": 1})
	ctx := context.Background()

	ds := db.Fetch("SELECT 1 AS one")
	assert.False(t, ds.Options().SingleTable())

	columns, err := ds.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, columns)

	rows, err := ds.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"one": 1}}, rows)

	_, err = ds.Delete(ctx)
	assert.ErrorIs(t, err, ErrReadOnly)
}
