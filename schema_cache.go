package modelkit

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/modelkit/schema"
	"gorm.io/modelkit/utils"
)

// SchemaStatus outcome of the last schema resolution of a model
type SchemaStatus int

const (
	// SchemaCold schema not resolved yet
	SchemaCold SchemaStatus = iota
	// SchemaResolved schema introspected from the table
	SchemaResolved
	// SchemaFallback only column names are known, taken from the dataset
	SchemaFallback
	// SchemaUnsupported introspection unsupported and columns unavailable
	SchemaUnsupported
	// SchemaFailed introspection and column lookup failed
	SchemaFailed
)

func (s SchemaStatus) String() string {
	switch s {
	case SchemaResolved:
		return "resolved"
	case SchemaFallback:
		return "fallback"
	case SchemaUnsupported:
		return "unsupported"
	case SchemaFailed:
		return "failed"
	default:
		return "cold"
	}
}

// DBSchema returns the cached schema of the model, resolving it on first access.
// Resolution failures are absorbed: the result stays nil until RefreshSchema,
// InvalidateSchema or a rebind.
func (m *Model) DBSchema(ctx context.Context) (schema.Map, error) {
	if m.dataset == nil {
		return nil, pkgerrors.Wrapf(ErrNoDataset, "model %s", m.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == SchemaCold {
		m.resolveSchema(ctx, false)
	}
	return m.schema, nil
}

// RefreshSchema drops the cached schema and columns and resolves them again,
// failures other than unsupported introspection are returned
func (m *Model) RefreshSchema(ctx context.Context) error {
	if m.dataset == nil {
		return pkgerrors.Wrapf(ErrNoDataset, "model %s", m.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetSchema()
	_, err := m.resolveSchema(ctx, true)
	return err
}

// InvalidateSchema drops the cached schema and columns, accessors are kept
func (m *Model) InvalidateSchema() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetSchema()
}

// SchemaStatus returns the outcome of the last schema resolution
func (m *Model) SchemaStatus() SchemaStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Model) resetSchema() {
	m.columns = nil
	m.strColumns = nil
	m.schema = nil
	m.status = SchemaCold
}

// resolveSchema requires m.mu to be held. Strict resolution returns introspection
// errors instead of falling back to the dataset columns.
func (m *Model) resolveSchema(ctx context.Context, strict bool) (SchemaStatus, error) {
	var (
		ds            = m.dataset
		opts          = ds.Options()
		introspectErr error
		metrics       = m.db.metrics
	)

	if opts.SingleTable() {
		if db := ds.DB(); db == nil {
			introspectErr = pkgerrors.Wrapf(ErrNoDatabase, "model %s", m.Name)
		} else if columns, err := db.Schema(ctx, opts.From[0]); err != nil {
			introspectErr = err
		} else {
			m.adoptSchema(columns, opts.Select)
			m.status = SchemaResolved
			metrics.SchemaResolved.Inc(1)
			return m.status, nil
		}

		unsupported := errors.Is(introspectErr, ErrSchemaUnsupported)
		if unsupported {
			m.db.Logger.Info(ctx, "schema introspection unsupported, using dataset columns", m.Name, introspectErr.Error())
		} else {
			m.db.Logger.Warn(ctx, "schema introspection failed, using dataset columns", m.Name, introspectErr.Error())
			if strict {
				m.status = SchemaFailed
				metrics.SchemaFail.Inc(1)
				return m.status, introspectErr
			}
		}
	}

	columns, err := ds.Columns(ctx)
	if err != nil {
		if introspectErr == nil || errors.Is(introspectErr, ErrSchemaUnsupported) {
			m.status = SchemaUnsupported
			metrics.SchemaUnsupported.Inc(1)
		} else {
			m.status = SchemaFailed
			metrics.SchemaFail.Inc(1)
		}
		m.db.Logger.Warn(ctx, "schema unavailable", m.Name, err.Error())
		return m.status, err
	}

	m.schema = make(schema.Map, len(columns))
	for _, column := range columns {
		m.schema[column] = &schema.Column{}
	}
	m.setColumns(columns)
	m.status = SchemaFallback
	metrics.SchemaFallback.Inc(1)
	return m.status, nil
}

// adoptSchema requires m.mu to be held
func (m *Model) adoptSchema(columns []schema.Column, selected []string) {
	var (
		all   = make(schema.Map, len(columns))
		order = make([]string, 0, len(columns))
	)

	for idx := range columns {
		column := columns[idx]
		all[column.Name] = &column
		order = append(order, column.Name)
	}

	if !m.primaryKeyExplicit {
		if keys := all.PrimaryKeys(order); len(keys) > 0 {
			m.primaryKey = keys
		}
	}

	if len(selected) == 0 {
		m.schema = all
		m.setColumns(order)
		return
	}

	m.schema = make(schema.Map, len(selected))
	for _, name := range utils.Intersect(order, selected) {
		m.schema[name] = all[name]
	}
	for _, name := range selected {
		if _, ok := m.schema[name]; !ok {
			m.schema[name] = &schema.Column{}
		}
	}
	m.setColumns(append([]string(nil), selected...))
}
