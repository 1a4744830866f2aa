package modelkit

import (
	"github.com/uber-go/tally/v4"
)

// Metrics is a struct for tracking the counters of the model layer
type Metrics struct {
	Bind                  tally.Counter
	BindSchemaUnavailable tally.Counter
	BindNoDatabase        tally.Counter
	BindSkipped           tally.Counter

	SchemaResolved    tally.Counter
	SchemaFallback    tally.Counter
	SchemaUnsupported tally.Counter
	SchemaFail        tally.Counter

	RecordSave     tally.Counter
	RecordSaveFail tally.Counter
	RecordDestroy  tally.Counter

	DestroyAllRows tally.Counter

	IdentityCacheHit  tally.Counter
	IdentityCacheMiss tally.Counter
}

// NewMetrics returns a new Metrics struct, with all metrics initialized and rooted at the given tally.Scope
func NewMetrics(scope tally.Scope) *Metrics {
	bindScope := scope.SubScope("bind")
	schemaScope := scope.SubScope("schema")
	recordScope := scope.SubScope("record")
	cacheScope := scope.SubScope("identity_cache")

	return &Metrics{
		Bind:                  bindScope.Tagged(map[string]string{"result": "bound"}).Counter("count"),
		BindSchemaUnavailable: bindScope.Tagged(map[string]string{"result": "schema_unavailable"}).Counter("count"),
		BindNoDatabase:        bindScope.Tagged(map[string]string{"result": "no_database"}).Counter("count"),
		BindSkipped:           bindScope.Tagged(map[string]string{"result": "skipped"}).Counter("count"),

		SchemaResolved:    schemaScope.Tagged(map[string]string{"result": "resolved"}).Counter("count"),
		SchemaFallback:    schemaScope.Tagged(map[string]string{"result": "fallback"}).Counter("count"),
		SchemaUnsupported: schemaScope.Tagged(map[string]string{"result": "unsupported"}).Counter("count"),
		SchemaFail:        schemaScope.Tagged(map[string]string{"result": "fail"}).Counter("count"),

		RecordSave:     recordScope.Tagged(map[string]string{"type": "success"}).Counter("save"),
		RecordSaveFail: recordScope.Tagged(map[string]string{"type": "fail"}).Counter("save"),
		RecordDestroy:  recordScope.Counter("destroy"),

		DestroyAllRows: scope.Counter("destroy_all_rows"),

		IdentityCacheHit:  cacheScope.Counter("hit"),
		IdentityCacheMiss: cacheScope.Counter("miss"),
	}
}
