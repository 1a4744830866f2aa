package modelkit

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Subclass derives a model from m. Configuration is copied from m, then the new model is bound:
// below the root model to the table named after it, below a bound model to a clone of its dataset.
func (m *Model) Subclass(name string) (*Model, BindResult) {
	return m.subclass(name, "")
}

// subclass binds below the root model to table, or to the implicit table when table is empty
func (m *Model) subclass(name, table string) (*Model, BindResult) {
	sub := m.inherit(strings.TrimSpace(name))
	ctx := context.Background()

	var (
		result BindResult
		err    error
	)

	switch {
	case m.root:
		if table == "" && sub.Name != "" {
			table = m.db.NamingStrategy.TableName(sub.Name)
		}
		if table == "" {
			result = BindResult{Status: Skipped, Err: errors.Wrap(ErrInvalidConfiguration, "anonymous model has no implicit table")}
			break
		}

		result, err = sub.SetDataset(table)
		if err != nil {
			result.Err = err
		}
	case m.dataset != nil:
		result, err = sub.SetDataset(m.dataset.Clone())
		if err != nil {
			result.Err = err
		}
	default:
		result = BindResult{Status: Skipped}
	}

	switch result.Status {
	case Skipped:
		m.db.metrics.BindSkipped.Inc(1)
		m.db.Logger.Info(ctx, "model left unbound", sub.Name)
	case NoDatabase:
		m.db.Logger.Info(ctx, "model left unbound, no database", sub.Name, result.Table)
	case SchemaUnavailable:
		m.db.Logger.Warn(ctx, "model bound without schema", sub.Name, result.Table, result.Err.Error())
	}
	return sub, result
}

func (m *Model) inherit(name string) *Model {
	sub := &Model{
		Name:                 name,
		db:                   m.db,
		parent:               m,
		typecastOnAssignment: m.typecastOnAssignment,
		primaryKey:           m.PrimaryKey(),
		primaryKeyExplicit:   m.primaryKeyExplicit,
		implicitKey:          m.implicitKey,
		transformRules:       make(map[string]string, len(m.transformRules)),
		subsets:              make(map[string]func(Dataset) Dataset, len(m.subsets)),
		delegated:            make(map[string]bool, len(m.delegated)),
		hooks:                m.hooks,
		validators:           append([]func(*Record) error(nil), m.validators...),
		accessors:            m.customAccessors(),
	}

	if len(sub.primaryKey) == 0 {
		sub.primaryKey = nil
	}

	for column, format := range m.transformRules {
		sub.transformRules[column] = format
	}
	for name, subset := range m.subsets {
		sub.subsets[name] = subset
	}
	for name := range m.delegated {
		sub.delegated[name] = true
	}
	return sub
}
