package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanity-io/codegen/internal/groq"
	"github.com/sanity-io/codegen/internal/observability"
	"github.com/sanity-io/codegen/internal/schema"
	"github.com/sanity-io/codegen/internal/typenode"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	post := &typenode.Object{Attributes: []typenode.ObjectAttribute{
		{Key: "_type", Value: typenode.StringLiteral("post")},
		{Key: "title", Value: &typenode.String{}},
		{Key: "views", Value: &typenode.Number{}, Optional: true},
	}}
	author := &typenode.Object{Attributes: []typenode.ObjectAttribute{
		{Key: "_type", Value: typenode.StringLiteral("author")},
		{Key: "name", Value: &typenode.String{}},
	}}
	return schema.New([]schema.Entry{
		{Name: "post", Kind: schema.KindDocument, Value: post},
		{Name: "author", Kind: schema.KindDocument, Value: author},
	})
}

func newTestGenerator() *Generator {
	return New(schema.NewCompiler(groq.New(), nil), nil, nil)
}

type recordingSink struct {
	schemaEvents []SchemaTypesEvent
	modules      []ModuleResult
	queryEvents  []QueryTypesEvent
}

func (r *recordingSink) SchemaTypesGenerated(e SchemaTypesEvent) { r.schemaEvents = append(r.schemaEvents, e) }
func (r *recordingSink) ModuleEvaluated(m ModuleResult)          { r.modules = append(r.modules, m) }
func (r *recordingSink) QueryTypesGenerated(e QueryTypesEvent)   { r.queryEvents = append(r.queryEvents, e) }

func TestGenerate_SchemaOnly(t *testing.T) {
	g := newTestGenerator()

	res, err := g.Generate(context.Background(), Options{
		Schema:     testSchema(t),
		SchemaPath: "schema.json",
	})
	require.NoError(t, err)

	assert.Empty(t, res.Modules)
	assert.Contains(t, res.Code, "// Schema: schema.json")
	assert.Contains(t, res.Code, "export type Post = {")
	assert.Contains(t, res.Code, "export type Author = {")
	assert.Contains(t, res.Code, "export type AllSanitySchemaTypes = Post | Author;")
	assert.Contains(t, res.Code, "export declare const internalGroqTypeReferenceTo: unique symbol;")
	assert.NotContains(t, res.Code, "declare module")
	assert.NotContains(t, res.Code, "ArrayOfKeyed")
}

func TestGenerate_SingleQuery(t *testing.T) {
	g := newTestGenerator()

	source := NewSliceSource(Module{
		Filename: "/project/src/posts.ts",
		Queries: []Query{
			{Name: "posts", Text: "*[_type == \"post\"]{title}"},
		},
	})
	res, err := g.Generate(context.Background(), Options{
		Schema:   testSchema(t),
		Source:   source,
		RootPath: "/project",
	})
	require.NoError(t, err)

	require.Len(t, res.Modules, 1)
	require.Len(t, res.Modules[0].Queries, 1)
	q := res.Modules[0].Queries[0]
	assert.Equal(t, "PostsResult", q.Identifier)
	assert.Equal(t, "posts", q.Variable)
	assert.Empty(t, res.Modules[0].Errors)

	assert.Contains(t, res.Code, "// Source: src/posts.ts")
	assert.Contains(t, res.Code, "// Variable: posts")
	assert.Contains(t, res.Code, "// Query: *[_type == \"post\"]{title}")
	assert.Contains(t, res.Code, "export type PostsResult = Array<{")
	assert.Contains(t, res.Code, "declare module \"@sanity/client\"")
	assert.Contains(t, res.Code, "\"*[_type == \\\"post\\\"]{title}\": PostsResult;")
}

func TestGenerate_IdenticalQueriesShareMapEntry(t *testing.T) {
	g := newTestGenerator()

	query := "*[_type == \"post\"]{title}"
	source := NewSliceSource(
		Module{Filename: "a.ts", Queries: []Query{{Name: "posts", Text: query}}},
		Module{Filename: "b.ts", Queries: []Query{{Name: "posts", Text: query}}},
	)
	res, err := g.Generate(context.Background(), Options{
		Schema: testSchema(t),
		Source: source,
	})
	require.NoError(t, err)

	require.Len(t, res.Modules, 2)
	assert.Equal(t, "PostsResult", res.Modules[0].Queries[0].Identifier)
	assert.Equal(t, "PostsResult_2", res.Modules[1].Queries[0].Identifier)

	// One map entry covers both declarations.
	assert.Contains(t, res.Code, "PostsResult | PostsResult_2;")
}

func TestGenerate_QueryErrorKeepsGoing(t *testing.T) {
	g := newTestGenerator()

	source := NewSliceSource(Module{
		Filename: "bad.ts",
		Queries: []Query{
			{Name: "broken", Text: "*[_type =="},
			{Name: "posts", Text: "*[_type == \"post\"]"},
		},
	})
	res, err := g.Generate(context.Background(), Options{
		Schema: testSchema(t),
		Source: source,
	})
	require.NoError(t, err)

	require.Len(t, res.Modules, 1)
	require.Len(t, res.Modules[0].Errors, 1)
	var qerr *QueryError
	require.ErrorAs(t, res.Modules[0].Errors[0], &qerr)
	assert.Equal(t, "broken", qerr.Variable)
	assert.Equal(t, "bad.ts", qerr.Filename)

	require.Len(t, res.Modules[0].Queries, 1)
	assert.Equal(t, "PostsResult", res.Modules[0].Queries[0].Identifier)
}

func TestGenerate_AggregateEmittedByDefault(t *testing.T) {
	g := newTestGenerator()

	source := NewSliceSource(Module{
		Filename: "posts.ts",
		Queries:  []Query{{Name: "posts", Text: "*[_type == \"post\"]"}},
	})
	res, err := g.Generate(context.Background(), Options{
		Schema: testSchema(t),
		Source: source,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Code, "declare module \"@sanity/client\"")
}

func TestGenerate_AggregateDisabled(t *testing.T) {
	g := newTestGenerator()

	source := NewSliceSource(Module{
		Filename: "posts.ts",
		Queries:  []Query{{Name: "posts", Text: "*[_type == \"post\"]"}},
	})
	res, err := g.Generate(context.Background(), Options{
		Schema:                       testSchema(t),
		Source:                       source,
		DisableOverloadClientMethods: true,
	})
	require.NoError(t, err)
	assert.NotContains(t, res.Code, "declare module")
	assert.Contains(t, res.Code, "export type PostsResult")
}

func TestGenerate_SchemaErrorIsFatal(t *testing.T) {
	g := newTestGenerator()

	dup := schema.New([]schema.Entry{
		{Name: "post", Kind: schema.KindDocument, Value: &typenode.Object{}},
		{Name: "post", Kind: schema.KindType, Value: &typenode.Object{}},
	})
	_, err := g.Generate(context.Background(), Options{Schema: dup})
	var derr *schema.DuplicateTypeError
	require.ErrorAs(t, err, &derr)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestGenerate_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	g := New(schema.NewCompiler(groq.New(), nil), nil, metrics)

	source := NewSliceSource(Module{
		Filename: "posts.ts",
		Queries: []Query{
			{Name: "posts", Text: "*[_type == \"post\"]"},
			{Name: "broken", Text: "*[_type =="},
		},
	})
	_, err := g.Generate(context.Background(), Options{
		Schema: testSchema(t),
		Source: source,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, reg, "codegen_queries_evaluated_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "codegen_query_errors_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "codegen_generation_runs_total"))
}

func TestGenerate_ProgressEvents(t *testing.T) {
	g := newTestGenerator()
	sink := &recordingSink{}

	source := NewSliceSource(Module{
		Filename: "posts.ts",
		Queries:  []Query{{Name: "posts", Text: "*[_type == \"post\"]"}},
	})
	_, err := g.Generate(context.Background(), Options{
		Schema:   testSchema(t),
		Source:   source,
		Progress: sink,
	})
	require.NoError(t, err)

	require.Len(t, sink.schemaEvents, 1)
	assert.Equal(t, 2, sink.schemaEvents[0].TypeCount)
	assert.Contains(t, sink.schemaEvents[0].Code, "AllSanitySchemaTypes")

	require.Len(t, sink.modules, 1)
	assert.Equal(t, "posts.ts", sink.modules[0].Filename)

	require.Len(t, sink.queryEvents, 1)
	assert.Equal(t, 1, sink.queryEvents[0].QueryCount)
	assert.Equal(t, sink.schemaEvents[0].RunID, sink.queryEvents[0].RunID)
}

func TestGenerate_CancelledSourceKeepsPartials(t *testing.T) {
	g := newTestGenerator()

	ch := make(chan Module, 2)
	ch <- Module{Filename: "a.ts", Queries: []Query{{Name: "posts", Text: "*[_type == \"post\"]"}}}
	source := NewChannelSource(ch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The channel is never closed; cancellation is what ends draining, and
	// the run still produces a result from whatever was consumed.
	res, err := g.Generate(ctx, Options{Schema: testSchema(t), Source: source})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Modules), 1)
}

func TestSliceSource_Exhaustion(t *testing.T) {
	s := NewSliceSource(Module{Filename: "a.ts"})

	m, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a.ts", m.Filename)

	_, err = s.Next(context.Background())
	assert.True(t, errors.Is(err, ErrEndOfSource))
}
