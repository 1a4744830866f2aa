package modelkit

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// DatasetMethods dataset methods every model delegates by default
var DatasetMethods = []string{
	"Where", "Select", "Order", "Limit",
	"All", "First", "Count", "Columns",
	"Insert", "Update", "Delete", "Clone", "Options",
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Dataset returns the bound dataset
func (m *Model) Dataset() (Dataset, error) {
	if m.dataset == nil {
		return nil, errors.Wrapf(ErrNoDataset, "model %s", m.Name)
	}
	return m.dataset, nil
}

// DelegateMethods declares dataset methods callable through Call
func (m *Model) DelegateMethods(names ...string) {
	for _, name := range names {
		m.delegated[name] = true
	}
}

// Delegated returns the delegated method names, sorted
func (m *Model) Delegated() []string {
	names := make([]string, 0, len(m.delegated))
	for name := range m.delegated {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call forwards name and args to the bound dataset and returns the method results.
// A trailing error result is returned as err. Subsets are callable by name without arguments.
func (m *Model) Call(name string, args ...interface{}) ([]interface{}, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}

	if subset, ok := m.subsets[name]; ok {
		if len(args) > 0 {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "subset %s.%s takes no arguments", m.Name, name)
		}
		return []interface{}{subset(ds)}, nil
	}

	if !m.delegated[name] {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "%s does not delegate %s", m.Name, name)
	}

	method := reflect.ValueOf(ds).MethodByName(name)
	if !method.IsValid() {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "dataset %T has no method %s", ds, name)
	}

	in, err := callArgs(method.Type(), args)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", m.Name, name)
	}

	out := method.Call(in)
	results := make([]interface{}, 0, len(out))
	for idx, value := range out {
		if idx == len(out)-1 && value.Type() == errorType {
			if !value.IsNil() {
				return results, value.Interface().(error)
			}
			break
		}
		results = append(results, value.Interface())
	}
	return results, nil
}

func callArgs(methodType reflect.Type, args []interface{}) ([]reflect.Value, error) {
	numIn := methodType.NumIn()
	variadic := methodType.IsVariadic()

	if (!variadic && len(args) != numIn) || (variadic && len(args) < numIn-1) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "wrong number of arguments (given %d, expected %d)", len(args), numIn)
	}

	in := make([]reflect.Value, len(args))
	for idx, arg := range args {
		var argType reflect.Type
		if variadic && idx >= numIn-1 {
			argType = methodType.In(numIn - 1).Elem()
		} else {
			argType = methodType.In(idx)
		}

		if arg == nil {
			switch argType.Kind() {
			case reflect.Interface, reflect.Map, reflect.Slice, reflect.Ptr, reflect.Func:
				in[idx] = reflect.Zero(argType)
				continue
			}
			return nil, errors.Wrapf(ErrInvalidConfiguration, "argument %d: nil is not a %s", idx, argType)
		}

		value := reflect.ValueOf(arg)
		if !value.Type().AssignableTo(argType) {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "argument %d: %s is not assignable to %s", idx, value.Type(), argType)
		}
		in[idx] = value
	}
	return in, nil
}

// Where returns the bound dataset filtered by conds
func (m *Model) Where(conds map[string]interface{}) (Dataset, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Where(conds), nil
}

// Select returns the bound dataset restricted to columns
func (m *Model) Select(columns ...string) (Dataset, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Select(columns...), nil
}

// Order returns the bound dataset ordered by columns
func (m *Model) Order(columns ...string) (Dataset, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Order(columns...), nil
}

// Limit returns the bound dataset limited to limit rows
func (m *Model) Limit(limit int) (Dataset, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Limit(limit), nil
}

// Subset defines a named filter of the dataset, see Scoped and ApplySubset
func (m *Model) Subset(name string, conds map[string]interface{}) {
	m.SubsetFunc(name, func(ds Dataset) Dataset {
		return ds.Where(conds)
	})
}

// SubsetFunc defines a named dataset transformation
func (m *Model) SubsetFunc(name string, fc func(Dataset) Dataset) {
	m.subsets[name] = fc
}

// Scoped returns the bound dataset with subset name applied
func (m *Model) Scoped(name string) (Dataset, error) {
	ds, err := m.Dataset()
	if err != nil {
		return nil, err
	}
	return m.ApplySubset(ds, name)
}

// ApplySubset applies subset name to ds, so subsets chain onto any dataset of the model
func (m *Model) ApplySubset(ds Dataset, name string) (Dataset, error) {
	subset, ok := m.subsets[name]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "%s has no subset %s", m.Name, name)
	}
	return subset(ds), nil
}
