package mysql

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/modelkit/dataset"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

const columnTypesSQL = "SELECT column_name, column_type, is_nullable, column_default, column_key, extra " +
	"FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"

type Dialector struct{}

// Open opens a mysql connection pool, dsn as accepted by go-sql-driver/mysql
func Open(dsn string, log logger.Interface) (*dataset.DB, error) {
	return dataset.Open(Dialector{}, dsn, log)
}

func (Dialector) Name() string {
	return "mysql"
}

func (Dialector) DriverName() string {
	return "mysql"
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
	return logger.ExplainSQL(sql, nil, `'`, vars...)
}

// ColumnTypes reads information_schema.columns of the current database
func (Dialector) ColumnTypes(ctx context.Context, q dataset.Queryer, table string) ([]schema.Column, error) {
	rows, err := q.QueryContext(ctx, columnTypesSQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			name, columnType, nullable, key, extra string
			dflt                                   sql.NullString
		)
		if err := rows.Scan(&name, &columnType, &nullable, &dflt, &key, &extra); err != nil {
			return nil, err
		}

		column := schema.Column{
			Name:          name,
			Type:          schema.ParseDataType(columnType),
			DBType:        columnType,
			PrimaryKey:    key == "PRI",
			AutoIncrement: strings.Contains(strings.ToLower(extra), "auto_increment"),
			AllowNull:     nullable == "YES",
		}
		if dflt.Valid {
			column.Default = dflt.String
		}
		columns = append(columns, column)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, errors.Wrap(dataset.ErrNoTable, table)
	}
	return columns, nil
}
