package modelkit

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/modelkit/utils"
)

// SetPrimaryKey sets the primary key, more than one column makes a composite key
func (m *Model) SetPrimaryKey(columns ...string) error {
	if len(columns) == 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "model %s: primary key needs at least one column, use NoPrimaryKey to remove it", m.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, column := range columns {
		if strings.TrimSpace(column) == "" {
			return errors.Wrapf(ErrInvalidConfiguration, "model %s: blank primary key column", m.Name)
		}
		if m.columns != nil && !utils.Contains(m.columns, column) {
			return errors.Wrapf(ErrInvalidConfiguration, "model %s: primary key column %s is not a column", m.Name, column)
		}
	}

	m.primaryKey = append([]string(nil), columns...)
	m.primaryKeyExplicit = true
	return nil
}

// NoPrimaryKey marks the model as having no primary key
func (m *Model) NoPrimaryKey() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primaryKey = nil
	m.primaryKeyExplicit = true
}

// PrimaryKey returns the primary key columns, nil if the model has none
func (m *Model) PrimaryKey() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.primaryKey...)
}

// CompositeKey reports whether the primary key has more than one column
func (m *Model) CompositeKey() bool {
	return len(m.PrimaryKey()) > 1
}

// PrimaryKeyHash builds the conditions matching the given primary key values.
// A composite key takes one value per column, either as arguments or as a single []interface{}.
func (m *Model) PrimaryKeyHash(values ...interface{}) (map[string]interface{}, error) {
	keys := m.PrimaryKey()
	if len(keys) == 0 {
		return nil, errors.Wrapf(ErrNoPrimaryKey, "model %s", m.Name)
	}

	if len(keys) > 1 && len(values) == 1 {
		if vs, ok := values[0].([]interface{}); ok {
			values = vs
		}
	}

	if len(values) != len(keys) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "model %s: primary key %v expects %d values, got %d", m.Name, keys, len(keys), len(values))
	}

	conds := make(map[string]interface{}, len(keys))
	for idx, key := range keys {
		conds[key] = values[idx]
	}
	return conds, nil
}
