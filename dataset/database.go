// Package dataset implements modelkit.Database and modelkit.Dataset on database/sql
package dataset

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"gorm.io/modelkit"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

// DB database/sql backed modelkit.Database
type DB struct {
	Dialector
	SQLDB  *sql.DB
	Logger logger.Interface
}

var _ modelkit.Database = (*DB)(nil)

type txKey struct{}

// Open opens dsn with the driver of dialector
func Open(dialector Dialector, dsn string, log logger.Interface) (*DB, error) {
	sqlDB, err := sql.Open(dialector.DriverName(), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dialector.Name())
	}
	return New(dialector, sqlDB, log), nil
}

// New wraps an opened *sql.DB
func New(dialector Dialector, sqlDB *sql.DB, log logger.Interface) *DB {
	if log == nil {
		log = logger.Default
	}
	return &DB{Dialector: dialector, SQLDB: sqlDB, Logger: log}
}

// Close closes the underlying connection pool
func (db *DB) Close() error {
	return db.SQLDB.Close()
}

// From returns a dataset selecting from table
func (db *DB) From(table string) modelkit.Dataset {
	return &Dataset{db: db, opts: modelkit.DatasetOptions{From: []string{table}}}
}

// Fetch returns a dataset reading the rows of a raw query, written with the dialect's bind vars
func (db *DB) Fetch(sql string, args ...interface{}) modelkit.Dataset {
	return &Dataset{db: db, opts: modelkit.DatasetOptions{SQL: sql}, args: args}
}

// Schema introspects table through the dialector
func (db *DB) Schema(ctx context.Context, table string) ([]schema.Column, error) {
	begin := time.Now()
	columns, err := db.ColumnTypes(ctx, db.conn(ctx), table)
	db.Logger.Trace(ctx, begin, func() (string, int64) {
		return "introspect " + db.Quote(table), int64(len(columns))
	}, ignoreUnsupported(err))
	return columns, err
}

// Transaction runs fc in a transaction, committed when fc returns nil.
// The transaction travels in the ctx passed to fc, nested calls join it.
func (db *DB) Transaction(ctx context.Context, fc func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fc(ctx)
	}

	tx, err := db.SQLDB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err = fc(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.Logger.Error(ctx, "rollback failed", rbErr.Error())
		}
		return err
	}
	return tx.Commit()
}

func (db *DB) conn(ctx context.Context) Queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.SQLDB
}

func (db *DB) trace(ctx context.Context, begin time.Time, query string, args []interface{}, rows int64, err error) {
	db.Logger.Trace(ctx, begin, func() (string, int64) {
		return db.Explain(query, args...), rows
	}, err)
}

func ignoreUnsupported(err error) error {
	if errors.Is(err, modelkit.ErrSchemaUnsupported) {
		return nil
	}
	return err
}
