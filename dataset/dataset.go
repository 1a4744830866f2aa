package dataset

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/modelkit"
)

// ErrReadOnly joined and raw query datasets can't be written
var ErrReadOnly = errors.New("dataset is read only")

// Dataset SQL dataset, chainable methods return a modified copy
type Dataset struct {
	db    *DB
	opts  modelkit.DatasetOptions
	args  []interface{}
	conds map[string]interface{}
	order []string
	limit int
	model *modelkit.Model
}

var _ modelkit.Dataset = (*Dataset)(nil)

func (ds *Dataset) DB() modelkit.Database {
	return ds.db
}

func (ds *Dataset) Options() modelkit.DatasetOptions {
	return modelkit.DatasetOptions{
		From:   append([]string(nil), ds.opts.From...),
		Joins:  append([]string(nil), ds.opts.Joins...),
		Select: append([]string(nil), ds.opts.Select...),
		SQL:    ds.opts.SQL,
	}
}

func (ds *Dataset) Model() *modelkit.Model {
	return ds.model
}

func (ds *Dataset) SetModel(m *modelkit.Model) {
	ds.model = m
}

func (ds *Dataset) Clone() modelkit.Dataset {
	return ds.clone()
}

func (ds *Dataset) clone() *Dataset {
	clone := *ds
	clone.opts = ds.Options()
	clone.args = append([]interface{}(nil), ds.args...)
	clone.order = append([]string(nil), ds.order...)
	clone.conds = make(map[string]interface{}, len(ds.conds))
	for k, v := range ds.conds {
		clone.conds[k] = v
	}
	return &clone
}

func (ds *Dataset) Where(conds map[string]interface{}) modelkit.Dataset {
	clone := ds.clone()
	for k, v := range conds {
		clone.conds[k] = v
	}
	return clone
}

func (ds *Dataset) Select(columns ...string) modelkit.Dataset {
	clone := ds.clone()
	clone.opts.Select = append([]string(nil), columns...)
	return clone
}

// Joins appends a join clause, e.g. "JOIN owners ON owners.id = widgets.owner_id"
func (ds *Dataset) Joins(clause string) modelkit.Dataset {
	clone := ds.clone()
	clone.opts.Joins = append(clone.opts.Joins, clause)
	return clone
}

// Order orders rows by columns, a "-" prefix sorts descending
func (ds *Dataset) Order(columns ...string) modelkit.Dataset {
	clone := ds.clone()
	clone.order = append(clone.order, columns...)
	return clone
}

func (ds *Dataset) Limit(limit int) modelkit.Dataset {
	clone := ds.clone()
	clone.limit = limit
	return clone
}

func (ds *Dataset) Columns(ctx context.Context) ([]string, error) {
	if len(ds.opts.Select) > 0 {
		return append([]string(nil), ds.opts.Select...), nil
	}

	query, args := ds.selectSQL()
	query = "SELECT * FROM (" + query + ") AS sub LIMIT 0"

	begin := time.Now()
	rows, err := ds.db.conn(ctx).QueryContext(ctx, query, args...)
	ds.db.trace(ctx, begin, query, args, -1, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows.Columns()
}

func (ds *Dataset) All(ctx context.Context) ([]map[string]interface{}, error) {
	query, args := ds.selectSQL()

	begin := time.Now()
	rows, err := ds.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		ds.db.trace(ctx, begin, query, args, -1, err)
		return nil, err
	}
	defer rows.Close()

	results, err := scanRows(rows)
	ds.db.trace(ctx, begin, query, args, int64(len(results)), err)
	return results, err
}

func (ds *Dataset) First(ctx context.Context) (map[string]interface{}, error) {
	rows, err := ds.Limit(1).All(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, modelkit.ErrRecordNotFound
	}
	return rows[0], nil
}

func (ds *Dataset) Count(ctx context.Context) (int64, error) {
	query, args := ds.selectSQL()
	query = "SELECT count(*) FROM (" + query + ") AS sub"

	var count int64
	begin := time.Now()
	err := ds.db.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&count)
	ds.db.trace(ctx, begin, query, args, -1, err)
	return count, err
}

func (ds *Dataset) Insert(ctx context.Context, values map[string]interface{}) (interface{}, error) {
	table, err := ds.table()
	if err != nil {
		return nil, err
	}

	var (
		columns      = sortedKeys(values)
		quoted       = make([]string, len(columns))
		placeholders = make([]string, len(columns))
		args         = make([]interface{}, len(columns))
	)
	for idx, column := range columns {
		quoted[idx] = ds.db.Quote(column)
		placeholders[idx] = ds.db.BindVar(idx + 1)
		args[idx] = values[column]
	}

	var query string
	if len(columns) == 0 {
		query = "INSERT INTO " + ds.db.Quote(table) + " DEFAULT VALUES"
	} else {
		query = "INSERT INTO " + ds.db.Quote(table) + " (" + strings.Join(quoted, ",") + ") VALUES (" + strings.Join(placeholders, ",") + ")"
	}

	var (
		begin = time.Now()
		conn  = ds.db.conn(ctx)
	)

	if pk := ds.primaryKey(); pk != "" && ds.db.Returning() {
		query += " RETURNING " + ds.db.Quote(pk)

		var id interface{}
		err := conn.QueryRowContext(ctx, query, args...).Scan(&id)
		ds.db.trace(ctx, begin, query, args, 1, err)
		if err != nil {
			return nil, err
		}
		return normalize(id), nil
	}

	result, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		ds.db.trace(ctx, begin, query, args, -1, err)
		return nil, err
	}

	ds.db.trace(ctx, begin, query, args, 1, nil)
	if ds.primaryKey() == "" {
		return nil, nil
	}
	if id, err := result.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}
	return nil, nil
}

func (ds *Dataset) Update(ctx context.Context, values map[string]interface{}) (int64, error) {
	table, err := ds.table()
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}

	var (
		columns = sortedKeys(values)
		sets    = make([]string, len(columns))
		args    = make([]interface{}, 0, len(columns)+len(ds.conds))
	)
	for idx, column := range columns {
		args = append(args, values[column])
		sets[idx] = ds.db.Quote(column) + " = " + ds.db.BindVar(len(args))
	}

	where, args := ds.whereSQL(args)
	query := "UPDATE " + ds.db.Quote(table) + " SET " + strings.Join(sets, ", ") + where
	return ds.exec(ctx, query, args)
}

func (ds *Dataset) Delete(ctx context.Context) (int64, error) {
	table, err := ds.table()
	if err != nil {
		return 0, err
	}

	where, args := ds.whereSQL(nil)
	return ds.exec(ctx, "DELETE FROM "+ds.db.Quote(table)+where, args)
}

// SQL returns the select statement of the dataset and its arguments
func (ds *Dataset) SQL() (string, []interface{}) {
	return ds.selectSQL()
}

func (ds *Dataset) exec(ctx context.Context, query string, args []interface{}) (int64, error) {
	begin := time.Now()
	result, err := ds.db.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		ds.db.trace(ctx, begin, query, args, -1, err)
		return 0, err
	}

	affected, err := result.RowsAffected()
	ds.db.trace(ctx, begin, query, args, affected, err)
	return affected, err
}

func (ds *Dataset) table() (string, error) {
	if !ds.opts.SingleTable() {
		return "", ErrReadOnly
	}
	return ds.opts.From[0], nil
}

func (ds *Dataset) primaryKey() string {
	if ds.model == nil {
		return ""
	}
	if keys := ds.model.PrimaryKey(); len(keys) == 1 {
		return keys[0]
	}
	return ""
}

func (ds *Dataset) selectSQL() (string, []interface{}) {
	var (
		b    strings.Builder
		args = append([]interface{}(nil), ds.args...)
	)

	columns := "*"
	if len(ds.opts.Select) > 0 {
		quoted := make([]string, len(ds.opts.Select))
		for idx, column := range ds.opts.Select {
			quoted[idx] = ds.db.Quote(column)
		}
		columns = strings.Join(quoted, ",")
	}

	b.WriteString("SELECT " + columns + " FROM ")
	if ds.opts.SQL != "" {
		b.WriteString("(" + ds.opts.SQL + ") AS raw")
	} else {
		quoted := make([]string, len(ds.opts.From))
		for idx, table := range ds.opts.From {
			quoted[idx] = ds.db.Quote(table)
		}
		b.WriteString(strings.Join(quoted, ", "))
	}

	for _, join := range ds.opts.Joins {
		b.WriteString(" " + join)
	}

	where, args := ds.whereSQL(args)
	b.WriteString(where)

	if len(ds.order) > 0 {
		orders := make([]string, len(ds.order))
		for idx, column := range ds.order {
			if strings.HasPrefix(column, "-") {
				orders[idx] = ds.db.Quote(column[1:]) + " DESC"
			} else {
				orders[idx] = ds.db.Quote(column)
			}
		}
		b.WriteString(" ORDER BY " + strings.Join(orders, ","))
	}

	if ds.limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(ds.limit))
	}
	return b.String(), args
}

// whereSQL appends the condition values to args, bind vars are numbered after the existing args
func (ds *Dataset) whereSQL(args []interface{}) (string, []interface{}) {
	if len(ds.conds) == 0 {
		return "", args
	}

	columns := sortedKeys(ds.conds)
	exprs := make([]string, len(columns))
	for idx, column := range columns {
		value := ds.conds[column]
		if value == nil {
			exprs[idx] = ds.db.Quote(column) + " IS NULL"
			continue
		}
		args = append(args, value)
		exprs[idx] = ds.db.Quote(column) + " = " + ds.db.BindVar(len(args))
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for idx := range values {
			pointers[idx] = &values[idx]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for idx, column := range columns {
			row[column] = normalize(values[idx])
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func normalize(value interface{}) interface{} {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
