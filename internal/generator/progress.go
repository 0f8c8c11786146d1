package generator

// SchemaTypesEvent is pushed once the schema declarations are compiled,
// before any query is evaluated.
type SchemaTypesEvent struct {
	RunID     string
	TypeCount int
	Code      string
}

// QueryTypesEvent is pushed at the very end of a run, once the aggregate
// query map is available. Code is empty when the map was omitted.
type QueryTypesEvent struct {
	RunID       string
	QueryCount  int
	SharedTypes int
	Code        string
}

// ProgressSink receives notifications as a generation run progresses.
// Implementations must be fast; they are called synchronously.
type ProgressSink interface {
	SchemaTypesGenerated(SchemaTypesEvent)
	ModuleEvaluated(ModuleResult)
	QueryTypesGenerated(QueryTypesEvent)
}
