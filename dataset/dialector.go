package dataset

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"gorm.io/modelkit/schema"
)

// Queryer is satisfied by *sql.DB and *sql.Tx
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Dialector SQL flavour of a database
type Dialector interface {
	Name() string
	DriverName() string
	Quote(name string) string
	// BindVar returns the placeholder of the n-th argument, n starts at 1
	BindVar(n int) string
	// Returning reports whether inserts return the primary key through RETURNING
	Returning() bool
	// ColumnTypes introspects table, returns modelkit.ErrSchemaUnsupported if it can't
	ColumnTypes(ctx context.Context, q Queryer, table string) ([]schema.Column, error)
	Explain(sql string, vars ...interface{}) string
}

// ErrNoTable introspected table does not exist
var ErrNoTable = errors.New("no such table")
