package modelkit

import (
	"context"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/modelkit/schema"
	"gorm.io/modelkit/utils"
)

// Hooks record lifecycle callbacks, a BeforeSave error turns a save into an ordinary save failure
type Hooks struct {
	BeforeSave    func(ctx context.Context, r *Record) error
	AfterSave     func(ctx context.Context, r *Record) error
	BeforeDestroy func(ctx context.Context, r *Record) error
	AfterDestroy  func(ctx context.Context, r *Record) error
}

// Model metadata of a model type: its dataset binding, primary key, schema and accessors.
//
// Configuration methods are not safe for concurrent use, configure models during startup.
// Lazy schema resolution and record access are safe once configuration is done.
type Model struct {
	Name string

	db       *DB
	parent   *Model
	root     bool
	database Database
	dataset  Dataset

	primaryKey         []string
	primaryKeyExplicit bool
	// implicitKey restored on rebind unless the key was set explicitly
	implicitKey []string

	typecastOnAssignment bool
	transformRules       map[string]string
	transforms           map[string]schema.SerializerInterface

	subsets    map[string]func(Dataset) Dataset
	delegated  map[string]bool
	hooks      Hooks
	validators []func(r *Record) error

	mu         sync.RWMutex
	accessors  map[string]*Accessor
	columns    []string
	strColumns []string
	schema     schema.Map
	status     SchemaStatus
}

func (m *Model) String() string {
	return m.Name
}

// DB returns the context the model was defined in
func (m *Model) DB() *DB {
	return m.db
}

// Parent returns the model this model was derived from, nil for the root model
func (m *Model) Parent() *Model {
	return m.parent
}

// IsRoot reports whether m is the root model of its DB
func (m *Model) IsRoot() bool {
	return m.root
}

// Database returns the database of the model, looked up through its ancestors
func (m *Model) Database() (Database, error) {
	for current := m; current != nil; current = current.parent {
		if current.database != nil {
			return current.database, nil
		}
		if current.root && current.db != nil && current.db.Database != nil {
			return current.db.Database, nil
		}
	}
	return nil, errors.Wrapf(ErrNoDatabase, "model %s", m.Name)
}

// SetDatabase changes the database of the model, a bound model is rebound to the same table on it
func (m *Model) SetDatabase(db Database) (BindResult, error) {
	m.database = db
	if m.dataset == nil || db == nil {
		return BindResult{Status: Skipped}, nil
	}

	table, err := m.TableName()
	if err != nil {
		return BindResult{}, err
	}
	return m.SetDataset(table)
}

// TableName returns the first source table of the bound dataset
func (m *Model) TableName() (string, error) {
	if m.dataset == nil {
		return "", errors.Wrapf(ErrNoDataset, "model %s", m.Name)
	}

	opts := m.dataset.Options()
	if len(opts.From) == 0 {
		return "", errors.Wrapf(ErrInvalidConfiguration, "dataset of model %s has no source table", m.Name)
	}
	return opts.From[0], nil
}

// Columns returns the column names of the model, resolving them on first access
func (m *Model) Columns(ctx context.Context) ([]string, error) {
	if m.dataset == nil {
		return nil, errors.Wrapf(ErrNoDataset, "model %s", m.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.columns == nil && m.status == SchemaCold {
		m.resolveSchema(ctx, false)
	}

	if m.columns == nil {
		columns, err := m.dataset.Columns(ctx)
		if err != nil {
			return nil, err
		}
		m.setColumns(columns)
	}

	return append([]string(nil), m.columns...), nil
}

// StrColumns returns the column names as plain strings, cached separately so callers
// comparing against untrusted input never touch the accessor table
func (m *Model) StrColumns(ctx context.Context) ([]string, error) {
	columns, err := m.Columns(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.strColumns == nil {
		m.strColumns = append([]string(nil), columns...)
	}
	return append([]string(nil), m.strColumns...), nil
}

// HasColumn reports whether column is a known column, without resolving anything
func (m *Model) HasColumn(column string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return utils.Contains(m.columns, column)
}

// SetTypecastOnAssignment enables or disables typecasting of assigned values
func (m *Model) SetTypecastOnAssignment(typecast bool) {
	m.typecastOnAssignment = typecast
}

// TypecastOnAssignment reports whether assigned values are typecast
func (m *Model) TypecastOnAssignment() bool {
	return m.typecastOnAssignment
}

// SetHooks replaces the lifecycle hooks of the model
func (m *Model) SetHooks(hooks Hooks) {
	m.hooks = hooks
}

// Validate adds a validator run before each save, any error makes the save fail
func (m *Model) Validate(fc func(r *Record) error) {
	m.validators = append(m.validators, fc)
}

// setColumns requires m.mu to be held
func (m *Model) setColumns(columns []string) {
	m.columns = columns
	m.strColumns = nil
	m.generateAccessors(columns)

	for _, key := range m.primaryKey {
		if !utils.Contains(columns, key) {
			if m.primaryKeyExplicit {
				m.db.Logger.Warn(context.Background(), "primary key column missing from columns", m.Name, key)
			} else {
				m.primaryKey = nil
			}
			break
		}
	}
}

func (m *Model) columnSchema(column string) *schema.Column {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.schema == nil {
		return nil
	}
	return m.schema[column]
}

func typeName(value interface{}) string {
	if value == nil {
		return ""
	}

	if name, ok := value.(string); ok {
		return name
	}

	modelType := reflect.TypeOf(value)
	for modelType.Kind() == reflect.Ptr || modelType.Kind() == reflect.Slice {
		modelType = modelType.Elem()
	}

	if modelType.Name() == "" {
		return ""
	}
	return modelType.String()
}
