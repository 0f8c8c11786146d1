// Package codegen generates TypeScript declarations from a Sanity schema
// manifest and the GROQ queries found in a source tree.
package codegen

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sanity-io/codegen/internal/generator"
	"github.com/sanity-io/codegen/internal/groq"
	"github.com/sanity-io/codegen/internal/observability"
	"github.com/sanity-io/codegen/internal/schema"
	"github.com/sanity-io/codegen/internal/schemajson"
)

// Re-exported source types so callers can feed queries without importing
// internal packages.
type (
	Query            = generator.Query
	Module           = generator.Module
	QuerySource      = generator.QuerySource
	ModuleResult     = generator.ModuleResult
	QueryResult      = generator.QueryResult
	Result           = generator.Result
	ProgressSink     = generator.ProgressSink
	SchemaTypesEvent = generator.SchemaTypesEvent
	QueryTypesEvent  = generator.QueryTypesEvent
)

// ErrEndOfSource signals an exhausted QuerySource.
var ErrEndOfSource = generator.ErrEndOfSource

// NewSliceSource wraps a fixed list of modules as a QuerySource.
func NewSliceSource(modules ...Module) QuerySource {
	return generator.NewSliceSource(modules...)
}

// GenerateOptions configures a generation run.
type GenerateOptions struct {
	// SchemaPath is the schema manifest (JSON) to compile.
	SchemaPath string
	// Source delivers the queries to type; nil generates schema types only.
	Source QuerySource
	// RootPath, when set, makes filenames in output comments relative.
	RootPath string
	// DisableOverloadClientMethods suppresses the aggregate query map,
	// which is emitted by default.
	DisableOverloadClientMethods bool
	// Progress receives streaming notifications; may be nil.
	Progress ProgressSink
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics may be nil to disable instrumentation.
	Metrics *observability.Metrics
}

// Generate loads the schema manifest and runs the full pipeline.
func Generate(ctx context.Context, opts GenerateOptions) (*Result, error) {
	data, err := os.ReadFile(opts.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema manifest: %w", err)
	}
	sch, err := schemajson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema manifest %q: %w", opts.SchemaPath, err)
	}

	compiler := schema.NewCompiler(groq.New(), opts.Logger)
	gen := generator.New(compiler, opts.Logger, opts.Metrics)
	return gen.Generate(ctx, generator.Options{
		Schema:                sch,
		Source:                opts.Source,
		RootPath:              opts.RootPath,
		SchemaPath:            opts.SchemaPath,
		DisableOverloadClientMethods: opts.DisableOverloadClientMethods,
		Progress:              opts.Progress,
	})
}
