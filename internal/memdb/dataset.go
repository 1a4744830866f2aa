package memdb

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/modelkit"
	"gorm.io/modelkit/utils"
)

// Dataset in-memory dataset, chainable methods return a modified copy
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

// Join adds table to the dataset sources, rows are still read from the first table
func (ds *Dataset) Join(table string) modelkit.Dataset {
	clone := ds.clone()
	clone.opts.Joins = append(clone.opts.Joins, table)
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
	ds.db.mu.Lock()
	defer ds.db.mu.Unlock()

	if ds.db.ColumnsErr != nil {
		return nil, ds.db.ColumnsErr
	}

	if len(ds.opts.Select) > 0 {
		return append([]string(nil), ds.opts.Select...), nil
	}

	if ds.opts.SQL != "" {
		res, ok := ds.db.results[ds.opts.SQL]
		if !ok {
			return nil, errors.Errorf("no result registered for %q", ds.opts.SQL)
		}
		return append([]string(nil), res.columns...), nil
	}

	var columns []string
	for _, name := range append(ds.Options().From, ds.opts.Joins...) {
		t, err := ds.db.table(name)
		if err != nil {
			return nil, err
		}
		for _, column := range t.names() {
			if !utils.Contains(columns, column) {
				columns = append(columns, column)
			}
		}
	}
	return columns, nil
}

func (ds *Dataset) All(ctx context.Context) ([]map[string]interface{}, error) {
	ds.db.mu.Lock()
	defer ds.db.mu.Unlock()

	rows, err := ds.rows()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, len(rows))
	for idx, row := range rows {
		results[idx] = ds.project(row)
	}
	return results, nil
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
	ds.db.mu.Lock()
	defer ds.db.mu.Unlock()

	rows, err := ds.rows()
	return int64(len(rows)), err
}

func (ds *Dataset) Insert(ctx context.Context, values map[string]interface{}) (interface{}, error) {
	ds.db.mu.Lock()
	defer ds.db.mu.Unlock()

	t, err := ds.writable()
	if err != nil {
		return nil, err
	}

	names := t.names()
	row := make(map[string]interface{}, len(t.Columns))
	for column, value := range values {
		if !utils.Contains(names, column) {
			return nil, errors.Errorf("table %s has no column %s", t.Name, column)
		}
		row[column] = value
	}

	var id interface{}
	for _, column := range t.Columns {
		if _, ok := row[column.Name]; ok && row[column.Name] != nil {
			if n, ok := toFloat(row[column.Name]); ok && column.AutoIncrement && int64(n) > t.nextID {
				t.nextID = int64(n)
			}
			continue
		}

		switch {
		case column.AutoIncrement:
			t.nextID++
			row[column.Name] = t.nextID
			if column.PrimaryKey {
				id = t.nextID
			}
		case column.Default != nil:
			row[column.Name] = column.Default
		default:
			row[column.Name] = nil
		}
	}

	t.Rows = append(t.Rows, row)
	return id, nil
}

func (ds *Dataset) Update(ctx context.Context, values map[string]interface{}) (int64, error) {
	ds.db.mu.Lock()
	defer ds.db.mu.Unlock()

	t, err := ds.writable()
	if err != nil {
		return 0, err
	}

	var count int64
	for _, row := range t.Rows {
		if ds.match(row) {
			for column, value := range values {
				row[column] = value
			}
			count++
		}
	}
	return count, nil
}

func (ds *Dataset) Delete(ctx context.Context) (int64, error) {
	ds.db.mu.Lock()
	defer ds.db.mu.Unlock()

	t, err := ds.writable()
	if err != nil {
		return 0, err
	}

	var (
		count int64
		kept  = t.Rows[:0]
	)
	for _, row := range t.Rows {
		if ds.match(row) {
			count++
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept
	return count, nil
}

func (ds *Dataset) String() string {
	if ds.opts.SQL != "" {
		return ds.opts.SQL
	}
	return fmt.Sprintf("SELECT * FROM %s", strings.Join(ds.opts.From, ", "))
}

// writable requires db.mu to be held
func (ds *Dataset) writable() (*Table, error) {
	if ds.opts.SQL != "" || len(ds.opts.Joins) > 0 || len(ds.opts.From) != 1 {
		return nil, ErrReadOnly
	}
	return ds.db.table(ds.opts.From[0])
}

// rows requires db.mu to be held
func (ds *Dataset) rows() ([]map[string]interface{}, error) {
	var source []map[string]interface{}
	if ds.opts.SQL != "" {
		res, ok := ds.db.results[ds.opts.SQL]
		if !ok {
			return nil, errors.Errorf("no result registered for %q", ds.opts.SQL)
		}
		source = res.rows
	} else {
		if len(ds.opts.From) == 0 {
			return nil, errors.New("dataset has no source table")
		}
		t, err := ds.db.table(ds.opts.From[0])
		if err != nil {
			return nil, err
		}
		source = t.Rows
	}

	var rows []map[string]interface{}
	for _, row := range source {
		if ds.match(row) {
			rows = append(rows, copyRow(row))
		}
	}

	for idx := len(ds.order) - 1; idx >= 0; idx-- {
		column, desc := ds.order[idx], false
		if strings.HasPrefix(column, "-") {
			column, desc = column[1:], true
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if desc {
				return less(rows[j][column], rows[i][column])
			}
			return less(rows[i][column], rows[j][column])
		})
	}

	if ds.limit > 0 && len(rows) > ds.limit {
		rows = rows[:ds.limit]
	}
	return rows, nil
}

func (ds *Dataset) match(row map[string]interface{}) bool {
	for column, value := range ds.conds {
		if !equal(row[column], value) {
			return false
		}
	}
	return true
}

func (ds *Dataset) project(row map[string]interface{}) map[string]interface{} {
	if len(ds.opts.Select) == 0 {
		return row
	}

	projected := make(map[string]interface{}, len(ds.opts.Select))
	for _, column := range ds.opts.Select {
		projected[column] = row[column]
	}
	return projected
}

func equal(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func less(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa < fb
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
