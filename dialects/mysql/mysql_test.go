package mysql_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/modelkit"
	"gorm.io/modelkit/dataset"
	"gorm.io/modelkit/dialects/mysql"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

func TestColumnTypes(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns WHERE table_schema = DATABASE()")).
		WithArgs("widgets").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "column_default", "column_key", "extra"}).
			AddRow("id", "bigint unsigned", "NO", nil, "PRI", "auto_increment").
			AddRow("name", "varchar(64)", "YES", nil, "", "").
			AddRow("active", "bit(1)", "NO", "1", "", ""))

	columns, err := mysql.Dialector{}.ColumnTypes(context.Background(), sqlDB, "widgets")
	require.NoError(t, err)
	assert.Equal(t, []schema.Column{
		{Name: "id", Type: schema.Int, DBType: "bigint unsigned", PrimaryKey: true, AutoIncrement: true},
		{Name: "name", Type: schema.String, DBType: "varchar(64)", AllowNull: true},
		{Name: "active", Type: schema.Bool, DBType: "bit(1)", Default: "1"},
	}, columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBindWithUnreachableSchema(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	lost := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns")).WillReturnError(lost)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM (SELECT * FROM `widgets`) AS sub LIMIT 0")).WillReturnError(lost)

	db := dataset.New(mysql.Dialector{}, sqlDB, logger.Discard)
	kit := modelkit.New(db, modelkit.WithLogger(logger.Discard))

	widget, result := kit.Define("Widget")
	assert.Equal(t, modelkit.SchemaUnavailable, result.Status)
	assert.ErrorIs(t, result.Err, lost)
	assert.True(t, result.Ok())
	assert.Equal(t, modelkit.SchemaFailed, widget.SchemaStatus())

	table, err := widget.TableName()
	require.NoError(t, err)
	assert.Equal(t, "widgets", table)
	assert.NoError(t, mock.ExpectationsWereMet())
}
