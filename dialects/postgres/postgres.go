package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	_ "github.com/lib/pq"
	"gorm.io/modelkit/dataset"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

var numericPlaceholder = regexp.MustCompile(`\$(\d+)`)

const columnTypesSQL = `SELECT c.column_name, c.data_type, c.is_nullable, c.column_default,
	EXISTS (SELECT 1 FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_name = c.table_name
		AND tc.table_schema = c.table_schema AND kcu.column_name = c.column_name) AS primary_key
	FROM information_schema.columns c
	WHERE c.table_schema = CURRENT_SCHEMA() AND c.table_name = $1
	ORDER BY c.ordinal_position`

type Dialector struct{}

// Open opens a postgres connection pool, dsn as accepted by lib/pq
func Open(dsn string, log logger.Interface) (*dataset.DB, error) {
	return dataset.Open(Dialector{}, dsn, log)
}

func (Dialector) Name() string {
	return "postgres"
}

func (Dialector) DriverName() string {
	return "postgres"
}

func (Dialector) Quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Dialector) BindVar(n int) string {
	return "$" + strconv.Itoa(n)
}

func (Dialector) Returning() bool {
	return true
}

func (Dialector) Explain(sql string, vars ...interface{}) string {
	return logger.ExplainSQL(sql, numericPlaceholder, `'`, vars...)
}

// ColumnTypes reads information_schema.columns of the current schema
func (Dialector) ColumnTypes(ctx context.Context, q dataset.Queryer, table string) ([]schema.Column, error) {
	rows, err := q.QueryContext(ctx, columnTypesSQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			name, dataType, nullable string
			dflt                     sql.NullString
			primaryKey               bool
		)
		if err := rows.Scan(&name, &dataType, &nullable, &dflt, &primaryKey); err != nil {
			return nil, err
		}

		column := schema.Column{
			Name:       name,
			Type:       schema.ParseDataType(dataType),
			DBType:     dataType,
			PrimaryKey: primaryKey,
			AllowNull:  nullable == "YES",
		}
		if dflt.Valid {
			if strings.HasPrefix(dflt.String, "nextval(") {
				column.AutoIncrement = true
			} else {
				column.Default = dflt.String
			}
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
