package sqlite_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/modelkit"
	"gorm.io/modelkit/dataset"
	"gorm.io/modelkit/dialects/sqlite"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

func TestColumnTypes(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(`widgets`)")).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(int64(0), "id", "INTEGER", int64(0), nil, int64(1)).
			AddRow(int64(1), "name", "varchar(255)", int64(1), nil, int64(0)).
			AddRow(int64(2), "size", "INTEGER", int64(0), "'1'", int64(0)))

	columns, err := sqlite.Dialector{}.ColumnTypes(context.Background(), sqlDB, "widgets")
	require.NoError(t, err)
	assert.Equal(t, []schema.Column{
		{Name: "id", Type: schema.Int, DBType: "INTEGER", PrimaryKey: true, AutoIncrement: true},
		{Name: "name", Type: schema.String, DBType: "varchar(255)"},
		{Name: "size", Type: schema.Int, DBType: "INTEGER", AllowNull: true, Default: "1"},
	}, columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnTypesNoTable(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(`gadgets`)")).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}))

	_, err = sqlite.Dialector{}.ColumnTypes(context.Background(), sqlDB, "gadgets")
	assert.ErrorIs(t, err, dataset.ErrNoTable)
}

func TestModelLifecycle(t *testing.T) {
	db, err := sqlite.Open(":memory:", logger.Discard)
	require.NoError(t, err)
	defer db.Close()
	db.SQLDB.SetMaxOpenConns(1)

	ctx := context.Background()
	_, err = db.SQLDB.ExecContext(ctx, "CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL, size INTEGER DEFAULT 1)")
	require.NoError(t, err)

	kit := modelkit.New(db, modelkit.WithLogger(logger.Discard))
	widget, result := kit.Define("Widget")
	require.Equal(t, modelkit.Bound, result.Status)
	assert.Equal(t, modelkit.SchemaResolved, widget.SchemaStatus())
	assert.Equal(t, []string{"id"}, widget.PrimaryKey())

	columns, err := widget.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "size"}, columns)

	for _, name := range []string{"a", "b", "c"} {
		r, ok, err := widget.Create(ctx, map[string]interface{}{"name": name, "size": "3"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.False(t, r.IsNew())
		assert.NotNil(t, r.Get("id"))
		assert.Equal(t, int64(3), r.Get("size"))
	}

	r, err := widget.Lookup(ctx, int64(2))
	require.NoError(t, err)
	assert.Equal(t, "b", r.Get("name"))

	require.NoError(t, r.Set("name", "bb"))
	ok, err := r.Save(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	r, err = widget.Find(ctx, map[string]interface{}{"name": "bb"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), r.Get("id"))

	count, err := widget.DestroyAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = widget.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
