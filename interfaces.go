package modelkit

import (
	"context"

	"gorm.io/modelkit/schema"
)

// Database connection level collaborator a model binds through
type Database interface {
	// From returns a dataset selecting from table
	From(table string) Dataset
	// Schema introspects table, returns ErrSchemaUnsupported if the database can't
	Schema(ctx context.Context, table string) ([]schema.Column, error)
	// Fetch returns a dataset for a raw query
	Fetch(sql string, args ...interface{}) Dataset
	// Transaction runs fc atomically, the transaction is carried by the ctx passed to fc.
	// Nested calls join the outer transaction.
	Transaction(ctx context.Context, fc func(ctx context.Context) error) error
}

// DatasetOptions describes the shape of a dataset
type DatasetOptions struct {
	From   []string
	Joins  []string
	Select []string
	SQL    string
}

// SingleTable reports whether the dataset reads one table without joins or raw SQL
func (opts DatasetOptions) SingleTable() bool {
	return len(opts.From) == 1 && len(opts.Joins) == 0 && opts.SQL == ""
}

// Dataset query builder / result set collaborator.
// Chainable methods return a new Dataset and never modify the receiver.
type Dataset interface {
	DB() Database
	Options() DatasetOptions

	// Model returns the model rows fetched through this dataset are loaded as
	Model() *Model
	SetModel(*Model)

	Clone() Dataset
	Where(conds map[string]interface{}) Dataset
	Select(columns ...string) Dataset
	Order(columns ...string) Dataset
	Limit(limit int) Dataset

	Columns(ctx context.Context) ([]string, error)
	All(ctx context.Context) ([]map[string]interface{}, error)
	// First returns ErrRecordNotFound when no row matches
	First(ctx context.Context) (map[string]interface{}, error)
	Count(ctx context.Context) (int64, error)

	// Insert returns the generated primary key value, if any
	Insert(ctx context.Context, values map[string]interface{}) (interface{}, error)
	Update(ctx context.Context, values map[string]interface{}) (int64, error)
	Delete(ctx context.Context) (int64, error)
}

// IdentityCache maps primary key values to materialized records
type IdentityCache interface {
	Get(key string) (*Record, bool)
	Add(key string, record *Record)
	Remove(key string)
	// Purge drops every record, bulk writes can't tell which keys they touched
	Purge()
}
