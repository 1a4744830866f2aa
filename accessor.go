package modelkit

// Accessor reads and writes one column of a record
type Accessor struct {
	Get func(r *Record) interface{}
	Set func(r *Record, value interface{}) error

	custom bool
}

// DefineAccessor installs a hand written accessor for column, generated accessors never replace it.
// A nil Get or Set falls back to plain value access.
func (m *Model) DefineAccessor(column string, accessor Accessor) {
	generated := columnAccessor(column)
	if accessor.Get == nil {
		accessor.Get = generated.Get
	}
	if accessor.Set == nil {
		accessor.Set = generated.Set
	}
	accessor.custom = true

	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessors[column] = &accessor
}

// Accessor returns the accessor of column
func (m *Model) Accessor(column string) (*Accessor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	accessor, ok := m.accessors[column]
	return accessor, ok
}

// generateAccessors is additive: existing accessors, generated or hand written, are kept,
// so accessors of columns dropped from a later column list keep reading the (empty) value space.
// Requires m.mu to be held.
func (m *Model) generateAccessors(columns []string) {
	for _, column := range columns {
		if _, ok := m.accessors[column]; !ok {
			m.accessors[column] = columnAccessor(column)
		}
	}
}

func columnAccessor(column string) *Accessor {
	return &Accessor{
		Get: func(r *Record) interface{} {
			return r.values[column]
		},
		Set: func(r *Record, value interface{}) error {
			return r.assign(column, value)
		},
	}
}

func (m *Model) customAccessors() map[string]*Accessor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := map[string]*Accessor{}
	for column, accessor := range m.accessors {
		if accessor.custom {
			results[column] = accessor
		}
	}
	return results
}
