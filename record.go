package modelkit

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/modelkit/schema"
	"gorm.io/modelkit/utils"
)

// Record a row of a model, either new (not persisted yet) or existing (loaded or saved)
type Record struct {
	model   *Model
	values  map[string]interface{}
	changed []string
	new     bool
	errors  []error
}

// Model returns the model of the record
func (r *Record) Model() *Model {
	return r.model
}

// IsNew reports whether the record has not been persisted yet
func (r *Record) IsNew() bool {
	return r.new
}

// Get reads column through its accessor, columns without accessor read the raw value
func (r *Record) Get(column string) interface{} {
	if accessor, ok := r.model.Accessor(column); ok {
		return accessor.Get(r)
	}
	return r.values[column]
}

// Set writes column through its accessor, it takes exactly one value
func (r *Record) Set(column string, args ...interface{}) error {
	if len(args) != 1 {
		return errors.Wrapf(ErrInvalidConfiguration, "%s.%s: wrong number of arguments (given %d, expected 1)", r.model.Name, column, len(args))
	}

	accessor, ok := r.model.Accessor(column)
	if !ok && !r.model.columnsKnown() && r.model.dataset != nil {
		// first access of a lazily bound model, columns unavailable leave the value raw
		if _, err := r.model.Columns(context.Background()); err == nil {
			accessor, ok = r.model.Accessor(column)
		}
	}

	if !ok {
		if r.model.columnsKnown() {
			return errors.Wrapf(ErrInvalidField, "%s has no column %s", r.model.Name, column)
		}
		return r.assign(column, args[0])
	}
	return accessor.Set(r, args[0])
}

// SetValues sets each column in values, in column name order
func (r *Record) SetValues(values map[string]interface{}) error {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		if err := r.Set(column, values[column]); err != nil {
			return err
		}
	}
	return nil
}

// Values returns a copy of the raw values of the record
func (r *Record) Values() map[string]interface{} {
	values := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return values
}

// Changed returns the columns modified since the record was loaded or saved
func (r *Record) Changed() []string {
	return append([]string(nil), r.changed...)
}

// Errors returns the errors that made the last save fail
func (r *Record) Errors() []error {
	return r.errors
}

// AddError adds a validation error to the record
func (r *Record) AddError(err error) {
	r.errors = append(r.errors, err)
}

// PK returns the primary key values of the record, in primary key order
func (r *Record) PK() ([]interface{}, error) {
	keys := r.model.PrimaryKey()
	if len(keys) == 0 {
		return nil, errors.Wrapf(ErrNoPrimaryKey, "model %s", r.model.Name)
	}

	values := make([]interface{}, len(keys))
	for idx, key := range keys {
		if values[idx] = r.values[key]; values[idx] == nil {
			return nil, errors.Wrapf(ErrNoPrimaryKey, "%s record has no value for primary key column %s", r.model.Name, key)
		}
	}
	return values, nil
}

// PKHash returns the conditions identifying the record
func (r *Record) PKHash() (map[string]interface{}, error) {
	values, err := r.PK()
	if err != nil {
		return nil, err
	}
	return r.model.PrimaryKeyHash(values...)
}

// Save inserts a new record or updates the changed columns of an existing one.
// A failed validation or BeforeSave hook returns false with a nil error, see Errors.
func (r *Record) Save(ctx context.Context) (bool, error) {
	var (
		m       = r.model
		metrics = m.db.metrics
	)

	ds, err := m.Dataset()
	if err != nil {
		return false, err
	}

	r.errors = nil
	for _, validate := range m.validators {
		if err := validate(r); err != nil {
			r.errors = append(r.errors, err)
		}
	}

	if len(r.errors) == 0 && m.hooks.BeforeSave != nil {
		if err := m.hooks.BeforeSave(ctx, r); err != nil {
			r.errors = append(r.errors, err)
		}
	}

	if len(r.errors) > 0 {
		metrics.RecordSaveFail.Inc(1)
		return false, nil
	}

	if r.new {
		err = r.insert(ctx, ds)
	} else {
		err = r.update(ctx, ds)
	}

	if err != nil {
		metrics.RecordSaveFail.Inc(1)
		return false, err
	}

	r.changed = nil
	r.cache()
	metrics.RecordSave.Inc(1)

	if m.hooks.AfterSave != nil {
		if err := m.hooks.AfterSave(ctx, r); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *Record) insert(ctx context.Context, ds Dataset) error {
	columns := make([]string, 0, len(r.values))
	for column := range r.values {
		columns = append(columns, column)
	}

	values, err := r.dump(columns)
	if err != nil {
		return err
	}

	id, err := ds.Insert(ctx, values)
	if err != nil {
		return err
	}

	if keys := r.model.PrimaryKey(); len(keys) == 1 && r.values[keys[0]] == nil && id != nil {
		r.values[keys[0]] = id
	}
	r.new = false
	return nil
}

func (r *Record) update(ctx context.Context, ds Dataset) error {
	if len(r.changed) == 0 {
		return nil
	}

	conds, err := r.PKHash()
	if err != nil {
		return err
	}

	values, err := r.dump(r.changed)
	if err != nil {
		return err
	}

	_, err = ds.Where(conds).Update(ctx, values)
	return err
}

// Destroy deletes the record by its primary key
func (r *Record) Destroy(ctx context.Context) error {
	m := r.model

	ds, err := m.Dataset()
	if err != nil {
		return err
	}

	conds, err := r.PKHash()
	if err != nil {
		return err
	}

	if m.hooks.BeforeDestroy != nil {
		if err := m.hooks.BeforeDestroy(ctx, r); err != nil {
			return err
		}
	}

	if _, err := ds.Where(conds).Delete(ctx); err != nil {
		return err
	}

	if cache := m.db.IdentityCache; cache != nil {
		if values, err := r.PK(); err == nil {
			cache.Remove(m.identityKey(values))
		}
	}
	m.db.metrics.RecordDestroy.Inc(1)

	if m.hooks.AfterDestroy != nil {
		return m.hooks.AfterDestroy(ctx, r)
	}
	return nil
}

// Refresh reloads the values of the record from its dataset
func (r *Record) Refresh(ctx context.Context) error {
	ds, err := r.model.Dataset()
	if err != nil {
		return err
	}

	conds, err := r.PKHash()
	if err != nil {
		return err
	}

	row, err := ds.Where(conds).First(ctx)
	if err != nil {
		return err
	}

	loaded, err := r.model.Load(row)
	if err != nil {
		return err
	}

	r.values = loaded.values
	r.changed = nil
	return nil
}

func (r *Record) String() string {
	return fmt.Sprintf("#<%s %v>", r.model.Name, r.values)
}

func (r *Record) assign(column string, value interface{}) error {
	m := r.model
	if _, serialized := m.transformRules[column]; m.typecastOnAssignment && !serialized {
		if c := m.columnSchema(column); c != nil {
			v, err := schema.Typecast(c, value)
			if err != nil {
				return err
			}
			value = v
		}
	}

	if old, ok := r.values[column]; ok && !r.new && reflect.DeepEqual(old, value) {
		return nil
	}

	r.values[column] = value
	if !utils.Contains(r.changed, column) {
		r.changed = append(r.changed, column)
	}
	return nil
}

// dump returns the stored form of columns, applying the model's transform rules
func (r *Record) dump(columns []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(columns))
	for _, column := range columns {
		value := r.values[column]
		if serializer, ok := r.model.transforms[column]; ok {
			dumped, err := serializer.Dump(value)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", r.model.Name, column)
			}
			value = dumped
		}
		values[column] = value
	}
	return values, nil
}

func (r *Record) cache() {
	cache := r.model.db.IdentityCache
	if cache == nil {
		return
	}

	if values, err := r.PK(); err == nil {
		cache.Add(r.model.identityKey(values), r)
	}
}

// identityKey is unique per model value, anonymous and same-named models never share entries
func (m *Model) identityKey(values []interface{}) string {
	return fmt.Sprintf("%s@%p:%s", m.Name, m, utils.ToStringKey(values...))
}

func (m *Model) columnsKnown() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.columns != nil
}
