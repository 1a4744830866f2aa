package modelkit

import (
	"sort"

	"github.com/pkg/errors"
	"gorm.io/modelkit/schema"
)

// SerializeColumns stores columns in format (json, gob, unixtime or any registered serializer).
// Values are dumped on save and loaded back when rows are materialized.
func (m *Model) SerializeColumns(format string, columns ...string) error {
	if _, ok := schema.GetSerializer(format); !ok {
		return errors.Wrapf(ErrInvalidConfiguration, "model %s: unknown serialization format %s", m.Name, format)
	}
	if len(columns) == 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "model %s: no columns to serialize", m.Name)
	}

	for _, column := range columns {
		m.transformRules[column] = format
	}

	if m.dataset != nil {
		return m.applyTransforms()
	}
	return nil
}

// SerializedColumns returns the columns with a transform rule, sorted
func (m *Model) SerializedColumns() []string {
	columns := make([]string, 0, len(m.transformRules))
	for column := range m.transformRules {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

func (m *Model) applyTransforms() error {
	transforms := make(map[string]schema.SerializerInterface, len(m.transformRules))
	for column, format := range m.transformRules {
		serializer, ok := schema.GetSerializer(format)
		if !ok {
			return errors.Wrapf(ErrInvalidConfiguration, "model %s: unknown serialization format %s for column %s", m.Name, format, column)
		}
		transforms[column] = serializer
	}
	m.transforms = transforms
	return nil
}
