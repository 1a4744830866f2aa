package modelkit

import (
	"context"

	"github.com/pkg/errors"
)

// BindStatus outcome of binding a model to a dataset
type BindStatus int

const (
	// Bound the dataset is bound, schema resolved or deferred
	Bound BindStatus = iota
	// SchemaUnavailable the dataset is bound but its schema could not be resolved
	SchemaUnavailable
	// NoDatabase no database is reachable, the model stays unbound
	NoDatabase
	// Skipped nothing to bind, e.g. anonymous models or a parent without dataset
	Skipped
)

func (s BindStatus) String() string {
	switch s {
	case Bound:
		return "bound"
	case SchemaUnavailable:
		return "schema_unavailable"
	case NoDatabase:
		return "no_database"
	default:
		return "skipped"
	}
}

// BindResult reports how a best effort bind went, Err holds the absorbed failure
type BindResult struct {
	Status BindStatus
	Table  string
	Err    error
}

// Ok reports whether the model has a dataset after the bind
func (r BindResult) Ok() bool {
	return r.Status == Bound || r.Status == SchemaUnavailable
}

// SetDataset binds the model to a table name, resolved against the model's database, or to a Dataset.
// Schema failures are absorbed into the result, configuration errors are returned.
func (m *Model) SetDataset(source interface{}) (BindResult, error) {
	if m.root {
		return BindResult{}, errors.Wrap(ErrInvalidConfiguration, "the root model can't be bound to a dataset")
	}

	switch value := source.(type) {
	case string:
		if value == "" {
			return BindResult{}, errors.Wrapf(ErrInvalidConfiguration, "model %s: blank table name", m.Name)
		}

		database, err := m.Database()
		if err != nil {
			m.db.metrics.BindNoDatabase.Inc(1)
			return BindResult{Status: NoDatabase, Table: value, Err: err}, err
		}
		return m.bind(database.From(value)), nil
	case Dataset:
		if value == nil {
			return BindResult{}, errors.Wrapf(ErrInvalidConfiguration, "model %s: nil dataset", m.Name)
		}
		if database := value.DB(); database != nil {
			m.database = database
		}
		return m.bind(value), nil
	default:
		return BindResult{}, errors.Wrapf(ErrInvalidConfiguration, "model %s: dataset must be a table name or a Dataset, got %T", m.Name, source)
	}
}

func (m *Model) bind(ds Dataset) BindResult {
	var (
		metrics = m.db.metrics
		ctx     = context.Background()
		result  = BindResult{Status: Bound}
	)

	ds.SetModel(m)

	m.mu.Lock()
	m.dataset = ds
	m.resetSchema()
	if !m.primaryKeyExplicit {
		m.primaryKey = append([]string(nil), m.implicitKey...)
	}
	m.mu.Unlock()

	if opts := ds.Options(); len(opts.From) > 0 {
		result.Table = opts.From[0]
	}

	if err := m.applyTransforms(); err != nil {
		m.db.Logger.Warn(ctx, "transform rules not applied", m.Name, err.Error())
	}

	if !m.db.LazySchemaLoading {
		m.mu.Lock()
		_, err := m.resolveSchema(ctx, false)
		m.mu.Unlock()

		if err != nil {
			result.Status = SchemaUnavailable
			result.Err = err
		}
	}

	switch result.Status {
	case Bound:
		metrics.Bind.Inc(1)
	case SchemaUnavailable:
		metrics.BindSchemaUnavailable.Inc(1)
	}
	m.db.Logger.Info(ctx, "model bound", m.Name, result.Table, result.Status.String())
	return result
}
