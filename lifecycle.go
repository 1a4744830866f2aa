package modelkit

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
)

// New returns a new record with values assigned through the accessors
func (m *Model) New(values map[string]interface{}) (*Record, error) {
	r := &Record{model: m, values: map[string]interface{}{}, new: true}
	if err := r.SetValues(values); err != nil {
		return nil, err
	}
	return r, nil
}

// Load materializes a stored row as an existing record, serialized columns are decoded
func (m *Model) Load(row map[string]interface{}) (*Record, error) {
	r := &Record{model: m, values: make(map[string]interface{}, len(row))}
	for column, value := range row {
		if serializer, ok := m.transforms[column]; ok && value != nil {
			loaded, err := serializer.Load(value)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", m.Name, column)
			}
			value = loaded
		}
		r.values[column] = value
	}
	return r, nil
}

// Create builds a new record and saves it. ok is false when the save failed validation or a hook,
// err only reports dataset failures.
func (m *Model) Create(ctx context.Context, values map[string]interface{}) (r *Record, ok bool, err error) {
	if r, err = m.New(values); err != nil {
		return nil, false, err
	}

	if ok, err = r.Save(ctx); err != nil || !ok {
		return r, false, err
	}
	return r, true, nil
}

// Find returns the first record matching conds, ErrRecordNotFound if there is none
func (m *Model) Find(ctx context.Context, conds map[string]interface{}) (*Record, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}

	row, err := ds.Where(conds).First(ctx)
	if err != nil {
		return nil, err
	}
	return m.Load(row)
}

// FindOrCreate returns the first record matching conds, creating it from conds when there is none.
// created reports whether the record was created.
func (m *Model) FindOrCreate(ctx context.Context, conds map[string]interface{}) (r *Record, created bool, err error) {
	r, err = m.Find(ctx, conds)
	if err == nil {
		return r, false, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, false, err
	}

	r, ok, err := m.Create(ctx, conds)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return r, false, errors.Wrapf(ErrInvalidConfiguration, "%s: create failed: %v", m.Name, r.Errors())
	}
	return r, true, nil
}

// Lookup finds a record by filter or by primary key.
// A single map argument is a filter and always queries the dataset, any other arguments are
// primary key values, served from the identity cache when one is configured.
func (m *Model) Lookup(ctx context.Context, args ...interface{}) (*Record, error) {
	if len(args) == 0 {
		return nil, errors.Wrapf(ErrInvalidFilter, "%s: lookup without arguments", m.Name)
	}

	for _, arg := range args {
		switch arg.(type) {
		case nil:
			return nil, errors.Wrapf(ErrInvalidFilter, "%s: nil is neither a filter nor a primary key", m.Name)
		case bool:
			return nil, errors.Wrapf(ErrInvalidFilter, "%s: boolean %v is neither a filter nor a primary key", m.Name, arg)
		}
	}

	if len(args) == 1 {
		if conds, ok, err := filterConds(args[0]); ok {
			if err != nil {
				return nil, errors.Wrapf(err, "%s", m.Name)
			}
			return m.Find(ctx, conds)
		}
	}

	conds, err := m.PrimaryKeyHash(args...)
	if err != nil {
		return nil, err
	}

	var (
		cache   = m.db.IdentityCache
		metrics = m.db.metrics
		key     string
	)

	if cache != nil {
		values := make([]interface{}, 0, len(conds))
		for _, column := range m.PrimaryKey() {
			values = append(values, conds[column])
		}

		key = m.identityKey(values)
		if r, ok := cache.Get(key); ok {
			metrics.IdentityCacheHit.Inc(1)
			return r, nil
		}
		metrics.IdentityCacheMiss.Inc(1)
	}

	r, err := m.Find(ctx, conds)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		cache.Add(key, r)
	}
	return r, nil
}

// filterConds converts any map keyed by strings into conditions, ok reports whether arg is a map
func filterConds(arg interface{}) (conds map[string]interface{}, ok bool, err error) {
	if conds, ok := arg.(map[string]interface{}); ok {
		return conds, true, nil
	}

	value := reflect.ValueOf(arg)
	if value.Kind() != reflect.Map {
		return nil, false, nil
	}
	if value.Type().Key().Kind() != reflect.String {
		return nil, true, errors.Wrapf(ErrInvalidFilter, "filter keys must be column names, got %s", value.Type().Key())
	}

	conds = make(map[string]interface{}, value.Len())
	iter := value.MapRange()
	for iter.Next() {
		conds[iter.Key().String()] = iter.Value().Interface()
	}
	return conds, true, nil
}

// All returns every record of the bound dataset
func (m *Model) All(ctx context.Context) ([]*Record, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}
	return Records(ctx, ds)
}

// First returns the first record of the bound dataset
func (m *Model) First(ctx context.Context) (*Record, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}

	row, err := ds.First(ctx)
	if err != nil {
		return nil, err
	}
	return m.Load(row)
}

// Count counts the rows of the bound dataset
func (m *Model) Count(ctx context.Context) (int64, error) {
	ds, err := m.Dataset()
	if err != nil {
		return 0, err
	}
	return ds.Count(ctx)
}

// Each calls fc for every record of the bound dataset, stopping at the first error
func (m *Model) Each(ctx context.Context, fc func(r *Record) error) error {
	records, err := m.All(ctx)
	if err != nil {
		return err
	}

	for _, r := range records {
		if err := fc(r); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll deletes every row of the bound dataset without loading records or running hooks.
// The identity cache is purged, since cached records may be among the deleted rows.
func (m *Model) DeleteAll(ctx context.Context) (int64, error) {
	ds, err := m.Dataset()
	if err != nil {
		return 0, err
	}

	count, err := ds.Delete(ctx)
	if err != nil {
		return 0, err
	}

	if cache := m.db.IdentityCache; cache != nil {
		cache.Purge()
	}
	return count, nil
}

// DestroyAll destroys every record of the bound dataset, see DestroyAll
func (m *Model) DestroyAll(ctx context.Context) (int64, error) {
	ds, err := m.Dataset()
	if err != nil {
		return 0, err
	}
	return DestroyAll(ctx, ds)
}

// Records loads the rows of ds as records of its model
func Records(ctx context.Context, ds Dataset) ([]*Record, error) {
	m := ds.Model()
	if m == nil {
		return nil, ErrNoModel
	}

	rows, err := ds.All(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		r, err := m.Load(row)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// DestroyAll destroys each record of ds individually inside one transaction and returns
// how many were destroyed. Nothing counts as destroyed unless the transaction commits.
func DestroyAll(ctx context.Context, ds Dataset) (int64, error) {
	m := ds.Model()
	if m == nil {
		return 0, ErrNoModel
	}

	database := ds.DB()
	if database == nil {
		var err error
		if database, err = m.Database(); err != nil {
			return 0, err
		}
	}

	var count int64
	err := database.Transaction(ctx, func(ctx context.Context) error {
		count = 0

		records, err := Records(ctx, ds)
		if err != nil {
			return err
		}

		for _, r := range records {
			if err := r.Destroy(ctx); err != nil {
				return err
			}
			count++
		}
		return nil
	})

	if err != nil {
		return 0, err
	}

	m.db.metrics.DestroyAllRows.Inc(count)
	return count, nil
}
