// Package generator orchestrates one type-generation run: compile the
// schema, drain and evaluate the query source, deduplicate repeated result
// shapes, and emit the final declaration file.
//
// The pipeline is strictly two-phase: every query must be evaluated and
// collected before the deduplication registry can be built, so no query
// declaration is emitted until the whole source is drained. Progress
// notifications still stream per module as evaluation proceeds.
package generator

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanity-io/codegen/internal/dedupe"
	"github.com/sanity-io/codegen/internal/fingerprint"
	"github.com/sanity-io/codegen/internal/naming"
	"github.com/sanity-io/codegen/internal/observability"
	"github.com/sanity-io/codegen/internal/schema"
	"github.com/sanity-io/codegen/internal/tsast"
	"github.com/sanity-io/codegen/internal/typenode"
)

const tracerName = "github.com/sanity-io/codegen"

// Options configures one generation run.
type Options struct {
	Schema *schema.Schema
	// Source is the query source to drain; nil means schema-only output.
	Source QuerySource
	// RootPath makes file comments relative when set.
	RootPath string
	// SchemaPath is emitted as a leading comment when set.
	SchemaPath string
	// DisableOverloadClientMethods suppresses the aggregate query map,
	// which is emitted by default.
	DisableOverloadClientMethods bool
	// Progress receives streaming notifications; may be nil.
	Progress ProgressSink
}

// QueryResult describes one successfully declared query.
type QueryResult struct {
	Filename   string
	Variable   string
	Query      string
	Identifier string
	Stats      typenode.Stats
}

// ModuleResult groups outcomes per input file. Identifiers are only
// assigned during the final lowering phase, so they are empty in progress
// notifications emitted while evaluation is still running.
type ModuleResult struct {
	Filename string
	Queries  []QueryResult
	Errors   []error
}

// Result is the output of a generation run.
type Result struct {
	File    *tsast.File
	Code    string
	Modules []ModuleResult
}

// Generator runs generation against a schema compiler.
type Generator struct {
	compiler *schema.Compiler
	logger   *slog.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

// New creates a Generator. logger and metrics may be nil.
func New(compiler *schema.Compiler, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		compiler: compiler,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer(tracerName),
	}
}

// evaluated pairs a query's result node with the declaration slot it will
// fill once lowering runs.
type evaluated struct {
	node   typenode.Node
	result *QueryResult
}

// Generate runs the full pipeline. Only schema compilation errors are
// fatal; per-query failures are recorded on their module and the run
// continues.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := g.logger.With(slog.String("run_id", runID))

	ctx, span := g.tracer.Start(ctx, "codegen.generate",
		trace.WithAttributes(attribute.String("codegen.run_id", runID)))
	defer span.End()

	_, schemaSpan := g.tracer.Start(ctx, "codegen.compile_schema")
	tables, err := g.compiler.Tables(opts.Schema)
	schemaSpan.End()
	if err != nil {
		return nil, err
	}

	schemaDecls := g.schemaDecls(tables, opts.SchemaPath)
	if opts.Progress != nil {
		opts.Progress.SchemaTypesGenerated(SchemaTypesEvent{
			RunID:     runID,
			TypeCount: len(tables.All()),
			Code:      tsast.Print(&tsast.File{Decls: schemaDecls}),
		})
	}

	modules, batch := g.drainSource(ctx, opts, logger)

	_, dedupeSpan := g.tracer.Start(ctx, "codegen.dedupe")
	fp := fingerprint.New()
	nodes := make([]typenode.Node, len(batch))
	for i, e := range batch {
		nodes[i] = e.node
	}
	occurrences := dedupe.Collect(fp, nodes)

	// Generated shared names must never collide with schema type names or
	// the fixed output identifiers.
	reservations := naming.NewReservations(logger)
	reservations.Seed(tables.Identifiers()...)
	reservations.Seed(schema.AllSchemaTypesName, schema.ReferenceSymbolName,
		schema.KeyedArrayName, schema.QueryMapName)
	registry := dedupe.BuildRegistry(occurrences, reservations)
	dedupeSpan.End()
	g.metrics.SharedTypes(registry.Len())

	_, lowerSpan := g.tracer.Start(ctx, "codegen.lower")
	lowerer := schema.NewLowerer(tables, registry, fp)

	sharedDecls := make([]tsast.Decl, 0, registry.Len())
	for _, entry := range registry.Entries() {
		sharedDecls = append(sharedDecls, &tsast.TypeAlias{
			Name:  entry.Identifier,
			Value: lowerer.LowerShared(entry.Node),
		})
	}

	queryDecls := make([]tsast.Decl, 0, len(batch))
	aggregate := newQueryAggregate()
	for _, e := range batch {
		identifier := reservations.Reserve(e.result.Variable + "Result")
		e.result.Identifier = identifier
		queryDecls = append(queryDecls, &tsast.TypeAlias{
			Comments: []string{
				"Source: " + relativePath(opts.RootPath, e.result.Filename),
				"Variable: " + e.result.Variable,
				"Query: " + flattenQuery(e.result.Query),
			},
			Name:  identifier,
			Value: lowerer.Lower(e.node),
		})
		aggregate.add(e.result.Query, identifier)
	}
	lowerSpan.End()

	decls := schemaDecls
	if lowerer.UsedKeyedArray() {
		decls = append(decls, keyedArrayDecl())
	}
	decls = append(decls, sharedDecls...)
	decls = append(decls, queryDecls...)

	aggregateCode := ""
	if !opts.DisableOverloadClientMethods && len(batch) > 0 {
		mapDecl := aggregate.decl()
		decls = append(decls, mapDecl)
		aggregateCode = tsast.PrintDecl(mapDecl)
	}

	file := &tsast.File{Decls: decls}
	result := &Result{
		File:    file,
		Code:    tsast.Print(file),
		Modules: modules,
	}

	if opts.Progress != nil {
		opts.Progress.QueryTypesGenerated(QueryTypesEvent{
			RunID:       runID,
			QueryCount:  len(batch),
			SharedTypes: registry.Len(),
			Code:        aggregateCode,
		})
	}

	g.metrics.RunCompleted(time.Since(started).Seconds())
	logger.Info("generation completed",
		slog.Int("schema_types", len(tables.All())),
		slog.Int("queries", len(batch)),
		slog.Int("shared_types", registry.Len()),
		slog.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// drainSource evaluates every query from the source in encounter order.
// Source failures and context cancellation end draining early; whatever
// was collected by then is still a valid partial batch.
func (g *Generator) drainSource(ctx context.Context, opts Options, logger *slog.Logger) ([]ModuleResult, []*evaluated) {
	if opts.Source == nil {
		return nil, nil
	}

	ctx, span := g.tracer.Start(ctx, "codegen.evaluate_queries")
	defer span.End()

	var modules []ModuleResult
	var batch []*evaluated
	for {
		module, err := opts.Source.Next(ctx)
		if err != nil {
			if !errors.Is(err, ErrEndOfSource) {
				logger.Warn("query source ended early",
					slog.String("error", err.Error()))
			}
			break
		}

		mr := ModuleResult{Filename: module.Filename, Errors: module.Errors}
		var moduleNodes []typenode.Node
		for _, q := range module.Queries {
			node, stats, evalErr := g.compiler.EvaluateQuery(ctx, opts.Schema, q.Text)
			if evalErr != nil {
				qerr := &QueryError{
					Filename: module.Filename,
					Variable: q.Name,
					Query:    q.Text,
					Err:      evalErr,
				}
				mr.Errors = append(mr.Errors, qerr)
				g.metrics.QueryFailed()
				logger.Warn("query evaluation failed",
					slog.String("file", module.Filename),
					slog.String("variable", q.Name),
					slog.String("error", evalErr.Error()),
				)
				continue
			}
			mr.Queries = append(mr.Queries, QueryResult{
				Filename: module.Filename,
				Variable: q.Name,
				Query:    q.Text,
				Stats:    stats,
			})
			moduleNodes = append(moduleNodes, node)
			g.metrics.QueryEvaluated()
		}
		modules = append(modules, mr)
		final := modules[len(modules)-1].Queries
		for i := range final {
			batch = append(batch, &evaluated{node: moduleNodes[i], result: &final[i]})
		}
		if opts.Progress != nil {
			opts.Progress.ModuleEvaluated(mr)
		}
	}
	return modules, batch
}

func (g *Generator) schemaDecls(tables *schema.Tables, schemaPath string) []tsast.Decl {
	var decls []tsast.Decl
	if schemaPath != "" {
		decls = append(decls, &tsast.Comment{Text: "Schema: " + schemaPath})
	}
	for _, ct := range tables.All() {
		decls = append(decls, ct.Decl)
	}

	refs := make([]tsast.Expr, 0, len(tables.All()))
	for _, ct := range tables.All() {
		refs = append(refs, &tsast.Ref{Name: ct.Identifier})
	}
	var allTypes tsast.Expr = &tsast.Never{}
	if len(refs) == 1 {
		allTypes = refs[0]
	} else if len(refs) > 1 {
		allTypes = &tsast.Union{Members: refs}
	}
	decls = append(decls,
		&tsast.TypeAlias{Name: schema.AllSchemaTypesName, Value: allTypes},
		&tsast.ConstSymbol{Name: schema.ReferenceSymbolName},
	)
	return decls
}

func keyedArrayDecl() tsast.Decl {
	return &tsast.TypeAlias{
		Name:       schema.KeyedArrayName,
		TypeParams: []string{"T"},
		Value: &tsast.Array{Elem: &tsast.Intersection{Members: []tsast.Expr{
			&tsast.Ref{Name: "T"},
			&tsast.Object{Members: []tsast.Member{
				{Key: dedupe.KeyKey, Value: &tsast.Primitive{Name: "string"}},
			}},
		}}},
	}
}

// queryAggregate groups result identifiers by exact query source string,
// preserving first-encounter order of the strings.
type queryAggregate struct {
	order []string
	byKey map[string][]string
}

func newQueryAggregate() *queryAggregate {
	return &queryAggregate{byKey: make(map[string][]string)}
}

func (a *queryAggregate) add(query, identifier string) {
	if _, seen := a.byKey[query]; !seen {
		a.order = append(a.order, query)
	}
	a.byKey[query] = append(a.byKey[query], identifier)
}

func (a *queryAggregate) decl() tsast.Decl {
	entries := make([]tsast.MapEntry, 0, len(a.order))
	for _, query := range a.order {
		identifiers := a.byKey[query]
		members := make([]tsast.Expr, len(identifiers))
		for i, id := range identifiers {
			members[i] = &tsast.Ref{Name: id}
		}
		var value tsast.Expr
		if len(members) == 1 {
			value = members[0]
		} else {
			value = &tsast.Union{Members: members}
		}
		entries = append(entries, tsast.MapEntry{Key: query, Value: value})
	}
	return &tsast.ModuleInterface{
		Comment: "Query TypeMap",
		Module:  "@sanity/client",
		Name:    schema.QueryMapName,
		Entries: entries,
	}
}

func relativePath(root, file string) string {
	if root == "" {
		return file
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return file
	}
	return rel
}

// flattenQuery removes line breaks and trims whitespace so the query fits
// one comment line.
func flattenQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
