package modelkit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/modelkit"
)

func TestAccessorsRoundTrip(t *testing.T) {
	widget := define(t, newKit(newDB(t)), "Widget")

	r, err := widget.New(nil)
	require.NoError(t, err)

	values := map[string]interface{}{"id": int64(9), "name": "gear", "size": int64(4)}
	columns, err := widget.Columns(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "size"}, columns)

	for _, column := range columns {
		accessor, ok := widget.Accessor(column)
		require.True(t, ok, column)
		require.NoError(t, accessor.Set(r, values[column]))
		assert.Equal(t, values[column], accessor.Get(r))
		assert.Equal(t, values[column], r.Get(column))
	}
	assert.Equal(t, []string{"id", "name", "size"}, r.Changed())
}

func TestAccessorArgumentCount(t *testing.T) {
	widget := define(t, newKit(newDB(t)), "Widget")
	r, err := widget.New(nil)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Set("name"), modelkit.ErrInvalidConfiguration)
	assert.ErrorIs(t, r.Set("name", "a", "b"), modelkit.ErrInvalidConfiguration)
	assert.ErrorIs(t, r.Set("color", "red"), modelkit.ErrInvalidField)
}

func TestTypecastOnAssignment(t *testing.T) {
	widget := define(t, newKit(newDB(t)), "Widget")

	r, err := widget.New(map[string]interface{}{"size": "12", "name": 7})
	require.NoError(t, err)
	assert.Equal(t, int64(12), r.Get("size"))
	assert.Equal(t, "7", r.Get("name"))

	assert.Error(t, r.Set("size", "twelve"))

	widget.SetTypecastOnAssignment(false)
	require.NoError(t, r.Set("size", "12"))
	assert.Equal(t, "12", r.Get("size"))
}

func TestDefinedAccessorIsKept(t *testing.T) {
	widget := define(t, newKit(newDB(t)), "Widget")
	widget.DefineAccessor("name", modelkit.Accessor{
		Get: func(r *modelkit.Record) interface{} {
			name, _ := r.Values()["name"].(string)
			return strings.ToUpper(name)
		},
	})

	require.NoError(t, widget.RefreshSchema(ctx))

	r, err := widget.New(map[string]interface{}{"name": "gear"})
	require.NoError(t, err)
	assert.Equal(t, "GEAR", r.Get("name"))
	assert.Equal(t, "gear", r.Values()["name"])

	sub, _ := widget.Subclass("SpecialWidget")
	r, err = sub.New(map[string]interface{}{"name": "cog"})
	require.NoError(t, err)
	assert.Equal(t, "COG", r.Get("name"))
}

func TestAccessorsOfDroppedColumns(t *testing.T) {
	db := newDB(t)
	seedWidgets(t, db)
	widget := define(t, newKit(db), "Widget")

	_, err := widget.SetDataset(db.From("widgets").Select("id"))
	require.NoError(t, err)

	columns, err := widget.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, columns)

	r, err := widget.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": int64(1)}, r.Values())

	assert.Nil(t, r.Get("name"))
	require.NoError(t, r.Set("name", "renamed"))
	assert.Equal(t, "renamed", r.Get("name"))
	assert.Equal(t, []string{"name"}, r.Changed())
}

func TestLazyModelResolvesColumnsOnFirstRecord(t *testing.T) {
	db := newDB(t)
	widget := define(t, newKit(db, modelkit.WithLazySchemaLoading()), "Widget")
	require.Equal(t, 0, db.SchemaCalls)

	_, err := widget.New(map[string]interface{}{"size": "5", "bogus": 1})
	assert.ErrorIs(t, err, modelkit.ErrInvalidField)
	assert.Equal(t, 1, db.SchemaCalls)
	assert.Equal(t, modelkit.SchemaResolved, widget.SchemaStatus())

	r, err := widget.New(map[string]interface{}{"size": "5"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.Get("size"))
	assert.Equal(t, 1, db.SchemaCalls)
}

func TestRestrictedSelectionLimitsColumns(t *testing.T) {
	db := newDB(t)
	kit := newKit(db)
	point, _ := kit.Base.Subclass("")

	_, err := point.SetDataset(db.From("points").Select("id", "x"))
	require.NoError(t, err)
	assert.True(t, point.HasColumn("x"))
	assert.False(t, point.HasColumn("y"))

	_, err = point.New(map[string]interface{}{"y": 1})
	assert.ErrorIs(t, err, modelkit.ErrInvalidField)

	r, err := point.New(map[string]interface{}{"x": "3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.Get("x"))
}
