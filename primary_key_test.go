package modelkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/modelkit"
)

func TestPrimaryKeyHash(t *testing.T) {
	kit := newKit(newDB(t))
	widget := define(t, kit, "Widget")
	item := define(t, kit, "LineItem")

	assert.Equal(t, []string{"id"}, widget.PrimaryKey())
	assert.False(t, widget.CompositeKey())
	conds, err := widget.PrimaryKeyHash(5)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": 5}, conds)

	assert.Equal(t, []string{"a", "b"}, item.PrimaryKey())
	assert.True(t, item.CompositeKey())

	conds, err = item.PrimaryKeyHash(1, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, conds)

	conds, err = item.PrimaryKeyHash([]interface{}{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, conds)

	_, err = item.PrimaryKeyHash(1)
	assert.ErrorIs(t, err, modelkit.ErrInvalidConfiguration)
	_, err = item.PrimaryKeyHash(1, 2, 3)
	assert.ErrorIs(t, err, modelkit.ErrInvalidConfiguration)
}

func TestSetPrimaryKey(t *testing.T) {
	widget := define(t, newKit(newDB(t)), "Widget")

	assert.ErrorIs(t, widget.SetPrimaryKey(), modelkit.ErrInvalidConfiguration)
	assert.ErrorIs(t, widget.SetPrimaryKey(" "), modelkit.ErrInvalidConfiguration)
	assert.ErrorIs(t, widget.SetPrimaryKey("serial"), modelkit.ErrInvalidConfiguration)
	assert.Equal(t, []string{"id"}, widget.PrimaryKey())

	require.NoError(t, widget.SetPrimaryKey("name", "size"))
	assert.Equal(t, []string{"name", "size"}, widget.PrimaryKey())

	require.NoError(t, widget.RefreshSchema(ctx))
	assert.Equal(t, []string{"name", "size"}, widget.PrimaryKey())
}

func TestNoPrimaryKey(t *testing.T) {
	db := newDB(t)
	seedWidgets(t, db)
	widget := define(t, newKit(db), "Widget")
	widget.NoPrimaryKey()

	assert.Nil(t, widget.PrimaryKey())
	_, err := widget.PrimaryKeyHash(1)
	assert.ErrorIs(t, err, modelkit.ErrNoPrimaryKey)
	_, err = widget.Lookup(ctx, 1)
	assert.ErrorIs(t, err, modelkit.ErrNoPrimaryKey)

	r, err := widget.First(ctx)
	require.NoError(t, err)
	_, err = r.PKHash()
	assert.ErrorIs(t, err, modelkit.ErrNoPrimaryKey)
	assert.ErrorIs(t, r.Destroy(ctx), modelkit.ErrNoPrimaryKey)

	require.NoError(t, r.Set("name", "renamed"))
	_, err = r.Save(ctx)
	assert.ErrorIs(t, err, modelkit.ErrNoPrimaryKey)

	r, ok, err := widget.Create(ctx, map[string]interface{}{"name": "keyless"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, r.IsNew())

	sub, _ := widget.Subclass("KeylessWidget")
	assert.Nil(t, sub.PrimaryKey())
}

func TestRecordWithoutKeyValue(t *testing.T) {
	widget := define(t, newKit(newDB(t)), "Widget")

	r, err := widget.New(map[string]interface{}{"name": "fresh"})
	require.NoError(t, err)

	_, err = r.PK()
	assert.ErrorIs(t, err, modelkit.ErrNoPrimaryKey)

	require.NoError(t, r.Set("id", 4))
	conds, err := r.PKHash()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": int64(4)}, conds)
}
