// Package memdb is an in-memory modelkit.Database, with snapshot transactions
package memdb

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/modelkit"
	"gorm.io/modelkit/schema"
)

// ErrNoTable table not created
var ErrNoTable = errors.New("no such table")

// ErrReadOnly raw query datasets can't be written
var ErrReadOnly = errors.New("dataset is read only")

// Table an in-memory table
type Table struct {
	Name    string
	Columns []schema.Column
	Rows    []map[string]interface{}

	nextID int64
}

func (t *Table) names() []string {
	names := make([]string, len(t.Columns))
	for idx, column := range t.Columns {
		names[idx] = column.Name
	}
	return names
}

func (t *Table) clone() *Table {
	clone := &Table{
		Name:    t.Name,
		Columns: append([]schema.Column(nil), t.Columns...),
		Rows:    make([]map[string]interface{}, len(t.Rows)),
		nextID:  t.nextID,
	}
	for idx, row := range t.Rows {
		clone.Rows[idx] = copyRow(row)
	}
	return clone
}

type result struct {
	columns []string
	rows    []map[string]interface{}
}

// DB in-memory database. The exported fields inject failures and count calls.
type DB struct {
	// SchemaUnsupported makes Schema return modelkit.ErrSchemaUnsupported
	SchemaUnsupported bool
	// SchemaErr returned by Schema
	SchemaErr error
	// ColumnsErr returned by Dataset.Columns
	ColumnsErr error
	// CommitErr aborts every outermost transaction after fc succeeded
	CommitErr error

	// SchemaCalls number of Schema calls
	SchemaCalls int
	// TxCount number of outermost transactions
	TxCount int

	mu      sync.Mutex
	tables  map[string]*Table
	results map[string]result
}

type txKey struct{}

// New returns an empty database
func New() *DB {
	return &DB{tables: map[string]*Table{}, results: map[string]result{}}
}

// CreateTable creates or replaces table name
func (db *DB) CreateTable(name string, columns ...schema.Column) *Table {
	db.mu.Lock()
	defer db.mu.Unlock()

	table := &Table{Name: name, Columns: columns}
	db.tables[name] = table
	return table
}

// Seed inserts rows into table, as Insert does
func (db *DB) Seed(table string, rows ...map[string]interface{}) error {
	ds := db.From(table)
	for _, row := range rows {
		if _, err := ds.Insert(context.Background(), row); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns a copy of the rows of table
func (db *DB) Rows(table string) []map[string]interface{} {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.tables[table]
	if !ok {
		return nil
	}
	return t.clone().Rows
}

// SetResult registers the columns and rows returned by Fetch(sql)
func (db *DB) SetResult(sql string, columns []string, rows ...map[string]interface{}) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.results[sql] = result{columns: columns, rows: rows}
}

// From returns a dataset selecting from table
func (db *DB) From(table string) modelkit.Dataset {
	return &Dataset{db: db, opts: modelkit.DatasetOptions{From: []string{table}}}
}

// Fetch returns a dataset for the result registered by SetResult
func (db *DB) Fetch(sql string, args ...interface{}) modelkit.Dataset {
	return &Dataset{db: db, opts: modelkit.DatasetOptions{SQL: sql}, args: args}
}

// Schema returns the columns of table
func (db *DB) Schema(ctx context.Context, table string) ([]schema.Column, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.SchemaCalls++
	if db.SchemaUnsupported {
		return nil, modelkit.ErrSchemaUnsupported
	}
	if db.SchemaErr != nil {
		return nil, db.SchemaErr
	}

	t, ok := db.tables[table]
	if !ok {
		return nil, errors.Wrap(ErrNoTable, table)
	}
	return append([]schema.Column(nil), t.Columns...), nil
}

// Transaction runs fc against a snapshot of the tables, restored if fc or the commit fails.
// Nested calls join the outer transaction.
func (db *DB) Transaction(ctx context.Context, fc func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fc(ctx)
	}

	db.mu.Lock()
	db.TxCount++
	snapshot := make(map[string]*Table, len(db.tables))
	for name, table := range db.tables {
		snapshot[name] = table.clone()
	}
	db.mu.Unlock()

	panicked := true
	defer func() {
		if panicked || err != nil {
			db.mu.Lock()
			db.tables = snapshot
			db.mu.Unlock()
		}
	}()

	err = fc(context.WithValue(ctx, txKey{}, true))
	if err == nil {
		err = db.CommitErr
	}
	panicked = false
	return err
}

// InTransaction reports whether ctx carries a transaction
func InTransaction(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

func (db *DB) table(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, errors.Wrap(ErrNoTable, name)
	}
	return t, nil
}

func copyRow(row map[string]interface{}) map[string]interface{} {
	clone := make(map[string]interface{}, len(row))
	for k, v := range row {
		clone[k] = v
	}
	return clone
}
