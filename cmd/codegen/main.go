package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/sanity-io/codegen"
	"github.com/sanity-io/codegen/internal/config"
	"github.com/sanity-io/codegen/internal/extract"
	"github.com/sanity-io/codegen/internal/logging"
	"github.com/sanity-io/codegen/internal/observability"
)

var (
	// Version is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
	Commit  = "none"
)

func main() {
	if err := run(); err != nil {
		slog.Error("codegen error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if showVersion, _ := pflag.CommandLine.GetBool("version"); showVersion {
		fmt.Printf("sanity-codegen %s (%s)\n", Version, Commit)
		return nil
	}

	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	if watch, _ := pflag.CommandLine.GetBool("watch"); watch {
		return watchLoop(ctx, cfg, logger.WithFields(slog.String("component", "watch")), metrics)
	}
	return generateOnce(ctx, cfg, metrics)
}

// progressLogger reports run progress through the structured logger,
// scoped to the run that emitted each event.
type progressLogger struct {
	logger *logging.Logger
}

func (p *progressLogger) SchemaTypesGenerated(e codegen.SchemaTypesEvent) {
	p.logger.WithRunID(e.RunID).Info("schema types generated",
		slog.Int("types", e.TypeCount))
}

func (p *progressLogger) ModuleEvaluated(m codegen.ModuleResult) {
	p.logger.Debug("module evaluated",
		slog.String("file", m.Filename),
		slog.Int("queries", len(m.Queries)),
		slog.Int("errors", len(m.Errors)))
}

func (p *progressLogger) QueryTypesGenerated(e codegen.QueryTypesEvent) {
	p.logger.WithRunID(e.RunID).Info("query types generated",
		slog.Int("queries", e.QueryCount),
		slog.Int("shared_types", e.SharedTypes))
}

func generateOnce(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) error {
	logger := logging.FromContext(ctx)
	scanner, err := extract.NewScanner(cfg.Extract.Root, cfg.Extract.Include, cfg.Extract.Exclude, logger.Logger)
	if err != nil {
		return err
	}

	res, err := codegen.Generate(ctx, codegen.GenerateOptions{
		SchemaPath:                   cfg.Schema.Path,
		Source:                       scanner.Source(ctx),
		RootPath:                     cfg.Extract.Root,
		DisableOverloadClientMethods: !cfg.Generate.OverloadClientMethods,
		Progress:                     &progressLogger{logger: logger},
		Logger:                       logger.Logger,
		Metrics:                      metrics,
	})
	if err != nil {
		return err
	}

	errCount := 0
	for _, module := range res.Modules {
		for _, merr := range module.Errors {
			errCount++
			logger.Warn("query skipped",
				slog.String("file", module.Filename),
				slog.String("error", merr.Error()),
			)
		}
	}
	if errCount > 0 {
		logger.Warn("generation finished with skipped queries", slog.Int("skipped", errCount))
	}

	return writeOutput(cfg.Output.Path, res.Code)
}

func writeOutput(path, code string) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(code)
		return err
	}
	return os.WriteFile(path, []byte(code), 0o644)
}
