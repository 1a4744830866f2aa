package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/modelkit/dataset"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

type Dialector struct{}

// Open opens the sqlite database file dsn, ":memory:" for a private in-memory database
func Open(dsn string, log logger.Interface) (*dataset.DB, error) {
	return dataset.Open(Dialector{}, dsn, log)
}

func (Dialector) Name() string {
	return "sqlite"
}

func (Dialector) DriverName() string {
	return "sqlite3"
}

func (Dialector) Quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (Dialector) BindVar(n int) string {
	return "?"
}

func (Dialector) Returning() bool {
	return false
}

func (Dialector) Explain(sql string, vars ...interface{}) string {
	return logger.ExplainSQL(sql, nil, `"`, vars...)
}

// ColumnTypes reads PRAGMA table_info, an INTEGER primary key is the rowid and auto increments
func (dialector Dialector) ColumnTypes(ctx context.Context, q dataset.Queryer, table string) ([]schema.Column, error) {
	rows, err := q.QueryContext(ctx, "PRAGMA table_info("+dialector.Quote(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		columns []schema.Column
		pkCount int
	)
	for rows.Next() {
		var (
			cid, notNull, pk int64
			name, dbType     string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &dbType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}

		column := schema.Column{
			Name:       name,
			Type:       schema.ParseDataType(dbType),
			DBType:     dbType,
			PrimaryKey: pk > 0,
			AllowNull:  notNull == 0 && pk == 0,
		}
		if dflt.Valid {
			column.Default = strings.Trim(dflt.String, `'"`)
		}
		if column.PrimaryKey {
			pkCount++
		}
		columns = append(columns, column)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, errors.Wrap(dataset.ErrNoTable, table)
	}

	if pkCount == 1 {
		for idx := range columns {
			if columns[idx].PrimaryKey && strings.EqualFold(columns[idx].DBType, "integer") {
				columns[idx].AutoIncrement = true
			}
		}
	}
	return columns, nil
}
