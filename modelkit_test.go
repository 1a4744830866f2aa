package modelkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/modelkit"
	"gorm.io/modelkit/internal/memdb"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

var ctx = context.Background()

func newDB(t *testing.T) *memdb.DB {
	t.Helper()

	db := memdb.New()
	db.CreateTable("widgets",
		schema.Column{Name: "id", Type: schema.Int, PrimaryKey: true, AutoIncrement: true},
		schema.Column{Name: "name", Type: schema.String},
		schema.Column{Name: "size", Type: schema.Int, Default: int64(1)},
	)
	db.CreateTable("points",
		schema.Column{Name: "id", Type: schema.Int, PrimaryKey: true, AutoIncrement: true},
		schema.Column{Name: "x", Type: schema.Int},
		schema.Column{Name: "y", Type: schema.Int},
	)
	db.CreateTable("line_items",
		schema.Column{Name: "a", Type: schema.Int, PrimaryKey: true},
		schema.Column{Name: "b", Type: schema.Int, PrimaryKey: true},
		schema.Column{Name: "qty", Type: schema.Int},
	)
	db.CreateTable("owners",
		schema.Column{Name: "owner_id", Type: schema.Int, PrimaryKey: true},
		schema.Column{Name: "email", Type: schema.String},
	)
	return db
}

func newKit(db modelkit.Database, opts ...modelkit.ConfigOption) *modelkit.DB {
	return modelkit.New(db, append([]modelkit.ConfigOption{modelkit.WithLogger(logger.Discard)}, opts...)...)
}

func seedWidgets(t *testing.T, db *memdb.DB) {
	t.Helper()
	require.NoError(t, db.Seed("widgets",
		map[string]interface{}{"name": "a", "size": int64(3)},
		map[string]interface{}{"name": "b", "size": int64(1)},
		map[string]interface{}{"name": "c", "size": int64(3)},
	))
}

func define(t *testing.T, kit *modelkit.DB, name string) *modelkit.Model {
	t.Helper()
	m, result := kit.Define(name)
	require.True(t, result.Ok(), "bind %s: %v", name, result.Err)
	return m
}
