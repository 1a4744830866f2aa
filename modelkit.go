package modelkit

import (
	"github.com/uber-go/tally/v4"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

// Config modelkit config, shared by every model defined through a DB
type Config struct {
	// LazySchemaLoading defers schema introspection from bind time to first access
	LazySchemaLoading bool
	// SkipTypecastOnAssignment disables typecasting of assigned values for new models
	SkipTypecastOnAssignment bool
	// NamingStrategy derives implicit table names from model names
	NamingStrategy schema.Namer
	// Logger
	Logger logger.Interface
	// IdentityCache optional cache used by primary key lookups
	IdentityCache IdentityCache
	// MetricsScope tally scope metrics are reported to
	MetricsScope tally.Scope

	metrics *Metrics
}

// DB the shared context models are defined in, it owns the root model
type DB struct {
	*Config
	Database Database
	Base     *Model
}

// New creates a DB around database, database may be nil when models are bound to datasets explicitly
func New(database Database, opts ...ConfigOption) *DB {
	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	if config.NamingStrategy == nil {
		config.NamingStrategy = schema.NamingStrategy{}
	}

	if config.Logger == nil {
		config.Logger = logger.Default
	}

	if config.MetricsScope == nil {
		config.MetricsScope = tally.NoopScope
	}
	config.metrics = NewMetrics(config.MetricsScope)

	db := &DB{Config: config, Database: database}
	db.Base = &Model{
		Name:                 "Model",
		db:                   db,
		root:                 true,
		primaryKey:           []string{"id"},
		implicitKey:          []string{"id"},
		typecastOnAssignment: !config.SkipTypecastOnAssignment,
		transformRules:       map[string]string{},
		subsets:              map[string]func(Dataset) Dataset{},
		delegated:            map[string]bool{},
		accessors:            map[string]*Accessor{},
	}
	for _, name := range DatasetMethods {
		db.Base.delegated[name] = true
	}
	return db
}

// Define defines a model directly below the root model, bound to its implicit table
func (db *DB) Define(name string) (*Model, BindResult) {
	return db.Base.Subclass(name)
}

// DefineTable defines a model directly below the root model, bound to table instead of its implicit table
func (db *DB) DefineTable(name, table string) (*Model, BindResult) {
	return db.Base.subclass(name, table)
}

// DefineType defines a model named after the Go type of value
func (db *DB) DefineType(value interface{}) (*Model, BindResult) {
	return db.Base.Subclass(typeName(value))
}

// Metrics returns the metrics of the DB
func (db *DB) Metrics() *Metrics {
	return db.metrics
}
