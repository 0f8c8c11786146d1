package schema

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sanity-io/codegen/internal/naming"
	"github.com/sanity-io/codegen/internal/tsast"
	"github.com/sanity-io/codegen/internal/typenode"
)

// Fixed output identifiers. They are seeded into every reservation set so
// generated names never shadow them.
const (
	// AllSchemaTypesName is the union alias over every schema type.
	AllSchemaTypesName = "AllSanitySchemaTypes"
	// ReferenceSymbolName is the marker symbol keying the hidden
	// dereference-target attribute of reference objects.
	ReferenceSymbolName = "internalGroqTypeReferenceTo"
	// KeyedArrayName is the generic alias for arrays whose elements carry
	// a synthetic per-element key.
	KeyedArrayName = "ArrayOfKeyed"
	// QueryMapName is the aggregate query-to-result-type interface.
	QueryMapName = "SanityQueries"
)

// QueryEvaluator is the external query type-inference facility: it infers
// the result type of a query string against a schema.
type QueryEvaluator interface {
	Evaluate(ctx context.Context, schema *Schema, query string) (typenode.Node, error)
}

// CompiledType is one named schema type with its generated identifier and
// compiled declaration.
type CompiledType struct {
	Name       string
	Identifier string
	Decl       *tsast.TypeAlias
	Source     string
}

// Tables is the compiled view of one schema value: identifier and
// declaration tables in schema declaration order.
type Tables struct {
	order  []string
	byName map[string]*CompiledType
}

// Has reports whether a type with the declared name exists.
func (t *Tables) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Get returns the compiled type for a declared name.
func (t *Tables) Get(name string) (*CompiledType, bool) {
	ct, ok := t.byName[name]
	return ct, ok
}

// Names returns all declared names in schema order.
func (t *Tables) Names() []string {
	return t.order
}

// All returns all compiled types in schema order.
func (t *Tables) All() []*CompiledType {
	out := make([]*CompiledType, len(t.order))
	for i, name := range t.order {
		out[i] = t.byName[name]
	}
	return out
}

// Identifiers returns every generated identifier in schema order.
func (t *Tables) Identifiers() []string {
	out := make([]string, len(t.order))
	for i, name := range t.order {
		out[i] = t.byName[name].Identifier
	}
	return out
}

// Compiler turns schemas into compiled declaration tables and evaluates
// queries against them. Tables are cached per schema version: repeated
// calls with the same Schema value return the same *Tables, which lets
// downstream consumers detect unnecessary regeneration cheaply.
type Compiler struct {
	evaluator QueryEvaluator
	logger    *slog.Logger

	mu            sync.Mutex
	cachedVersion string
	cachedTables  *Tables
}

// NewCompiler creates a Compiler delegating query inference to evaluator.
func NewCompiler(evaluator QueryEvaluator, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{evaluator: evaluator, logger: logger}
}

// Tables compiles s, or returns the cached tables when s is the schema
// value compiled last. Duplicate declared names are a fatal configuration
// error.
func (c *Compiler) Tables(s *Schema) (*Tables, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedTables != nil && c.cachedVersion == s.Version() {
		return c.cachedTables, nil
	}

	tables, err := c.compile(s)
	if err != nil {
		return nil, err
	}
	c.cachedVersion = s.Version()
	c.cachedTables = tables
	return tables, nil
}

func (c *Compiler) compile(s *Schema) (*Tables, error) {
	tables := &Tables{byName: make(map[string]*CompiledType, s.Len())}

	// Identifiers are assigned up front, in declaration order, so forward
	// references resolve regardless of entry order.
	reservations := naming.NewReservations(c.logger)
	reservations.Seed(AllSchemaTypesName, ReferenceSymbolName, KeyedArrayName, QueryMapName)
	for _, entry := range s.Entries() {
		if tables.Has(entry.Name) {
			return nil, &DuplicateTypeError{Name: entry.Name}
		}
		tables.byName[entry.Name] = &CompiledType{
			Name:       entry.Name,
			Identifier: reservations.Reserve(entry.Name),
		}
		tables.order = append(tables.order, entry.Name)
	}

	// Schema types are never deduplicated against each other, so the
	// lowerer runs without a registry.
	lowerer := NewLowerer(tables, nil, nil)
	for _, entry := range s.Entries() {
		ct := tables.byName[entry.Name]
		ct.Decl = &tsast.TypeAlias{
			Name:  ct.Identifier,
			Value: lowerer.Lower(entry.Value),
		}
		ct.Source = tsast.PrintDecl(ct.Decl)
	}

	c.logger.Debug("schema compiled",
		slog.String("schema_version", s.Version()),
		slog.Int("types", s.Len()),
	)
	return tables, nil
}

// EvaluateQuery infers the result type of query against s and counts its
// usage statistics with a full tree walk. Failures come back as errors from
// the evaluator, wrapped with query context by the caller.
func (c *Compiler) EvaluateQuery(ctx context.Context, s *Schema, query string) (typenode.Node, typenode.Stats, error) {
	node, err := c.evaluator.Evaluate(ctx, s, query)
	if err != nil {
		return nil, typenode.Stats{}, err
	}
	return node, typenode.CountStats(node), nil
}
