package modelkit

import (
	"github.com/pkg/errors"
	"gorm.io/modelkit/logger"
)

var (
	// ErrRecordNotFound record not found error
	ErrRecordNotFound = logger.ErrRecordNotFound
	// ErrNoDataset model has no dataset bound
	ErrNoDataset = errors.New("no dataset associated with model")
	// ErrNoDatabase no database reachable from model or any ancestor
	ErrNoDatabase = errors.New("no database associated with model")
	// ErrNoPrimaryKey model has no primary key, or the record has no primary key value
	ErrNoPrimaryKey = errors.New("no primary key")
	// ErrInvalidConfiguration invalid model configuration or arguments
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidFilter lookup given a boolean instead of primary key values or conditions
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidField no accessor for column
	ErrInvalidField = errors.New("invalid field")
	// ErrSchemaUnsupported returned by a Database that can't introspect a table
	ErrSchemaUnsupported = errors.New("schema introspection unsupported")
	// ErrNoModel dataset has no model registered
	ErrNoModel = errors.New("no model associated with dataset")
)
