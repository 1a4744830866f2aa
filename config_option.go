package modelkit

import (
	"github.com/uber-go/tally/v4"
	"gorm.io/modelkit/logger"
	"gorm.io/modelkit/schema"
)

// ConfigOption use functional option for modelkit Config.
type ConfigOption func(c *Config)

// WithLazySchemaLoading defer schema loading to first access.
func WithLazySchemaLoading() ConfigOption {
	return func(c *Config) {
		c.LazySchemaLoading = true
	}
}

// WithoutTypecastOnAssignment disable typecasting of assigned values.
func WithoutTypecastOnAssignment() ConfigOption {
	return func(c *Config) {
		c.SkipTypecastOnAssignment = true
	}
}

// WithNamingStrategy set schema namer.
func WithNamingStrategy(namer schema.Namer) ConfigOption {
	return func(c *Config) {
		c.NamingStrategy = namer
	}
}

// WithLogger set logger.
func WithLogger(logger logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithIdentityCache set identity cache used by primary key lookups.
func WithIdentityCache(cache IdentityCache) ConfigOption {
	return func(c *Config) {
		c.IdentityCache = cache
	}
}

// WithMetricsScope set tally scope.
func WithMetricsScope(scope tally.Scope) ConfigOption {
	return func(c *Config) {
		c.MetricsScope = scope
	}
}
