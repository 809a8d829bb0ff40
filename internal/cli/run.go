package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/config"
	"github.com/aretw0/txgraph/internal/presentation/graph"
	"github.com/aretw0/txgraph/internal/presentation/tui"
	"github.com/aretw0/txgraph/pkg/adapters/process"
	"github.com/aretw0/txgraph/pkg/observability"
	"github.com/google/uuid"
)

// RunOptions contains all the configuration for the trace command.
type RunOptions struct {
	Seeds      []string
	File       string
	Source     string // offline, local or network
	Time       string // none, full or date
	BTC        bool
	USD        bool
	Truncate   bool
	Highlight  bool
	Lenient    bool
	Format     string // dot or mermaid
	DataDir    string
	ConfigPath string
	Debug      bool
	KafkaTopic string
	Render     string // svg, png or pdf; empty disables Graphviz rendering
}

// LoadConfig reads the config file and applies flag overrides.
func LoadConfig(path, dataDir string, warn func(format string, args ...any)) (*config.Config, error) {
	cfg, warnings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		warn("%s", w)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// Execute handles the 'trace' command logic.
func Execute(ctx context.Context, opts RunOptions, stdout, stderr io.Writer) error {
	printer := tui.NewPrinter(stderr)

	cfg, err := LoadConfig(opts.ConfigPath, opts.DataDir, printer.Warn)
	if err != nil {
		return err
	}
	if opts.KafkaTopic != "" {
		cfg.Kafka.Topic = opts.KafkaTopic
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := txgraph.ValidateFormat(opts.Format); err != nil {
		return err
	}
	if opts.Render != "" && !slices.Contains(process.Formats, opts.Render) {
		return fmt.Errorf("%w: %q", process.ErrFormatNotAllowed, opts.Render)
	}

	seeds, err := CollectSeeds(opts.Seeds, opts.File)
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		return fmt.Errorf("no seed addresses given")
	}

	runID := uuid.NewString()
	logger := createLogger(opts.Debug).With("run_id", runID)

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = observability.Combine(hooks, createDebugHooks(logger))
	}

	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := createEngine(opts, cfg, store, hooks, logger)
	if err != nil {
		return err
	}

	sinks, err := createSinks(ctx, cfg, runID, logger)
	if err != nil {
		return err
	}
	defer closeSinks(sinks)

	res, runErr := Trace(ctx, engine, TraceOptions{
		Seeds:   seeds,
		DataDir: cfg.DataDir,
		Format:  opts.Format,
		Merge:   graph.MergeOptions{Highlight: opts.Highlight, Truncate: opts.Truncate},
		Sinks:   sinks,
		RunID:   runID,
		Warn:    printer.Warn,
		Observe: metrics.ObserveSeed,
		Logger:  logger,

		Renderer: process.NewRunner(
			process.WithCommand(cfg.Render.Command, cfg.Render.Args...),
			process.WithLogger(logger),
		),
		RenderFormat: opts.Render,
	})

	if res != nil && runErr == nil {
		pretty := false
		if f, ok := stdout.(*os.File); ok {
			pretty = tui.IsTerminal(f)
		}
		if err := tui.PrintSummary(stdout, res.Summary(), pretty); err != nil {
			return err
		}
	}

	return runErr
}
