package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/internal/presentation/graph"
	"github.com/aretw0/txgraph/internal/presentation/tui"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/google/uuid"
)

// RunstampLayout names merged documents after the run start time.
const RunstampLayout = "20060102-150405"

// Seed outcomes reported in the run summary and metrics.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Expander builds the edge document of one seed.
type Expander interface {
	Expand(ctx context.Context, seed string) (*edges.Document, error)
}

// Renderer converts a written DOT document into another format.
type Renderer interface {
	Render(ctx context.Context, dotPath, format string) (string, error)
}

// TraceOptions configures one multi-seed run.
type TraceOptions struct {
	Seeds   []string
	DataDir string
	Format  string
	Merge   graph.MergeOptions
	Sinks   []ports.EdgeSink
	RunID   string
	Start   time.Time

	// Renderer, when set together with RenderFormat, runs on every written
	// DOT document. Rendering failures are reported through Warn.
	Renderer     Renderer
	RenderFormat string

	// Warn reports recoverable problems such as invalid seeds.
	Warn func(format string, args ...any)
	// Observe is called with the outcome of every seed.
	Observe func(outcome string)
	Logger  *slog.Logger
}

// Result describes a finished (or aborted) run.
type Result struct {
	RunID  string
	Seeds  []tui.SeedResult
	Merged string
}

// Summary converts the result for display.
func (r *Result) Summary() tui.Summary {
	return tui.Summary{RunID: r.RunID, Seeds: r.Seeds, Merged: r.Merged}
}

// Trace expands every seed in order and writes its document under DataDir.
// Invalid seeds are skipped with a warning. Any other error aborts the run
// before the in-flight seed's document is written; documents of completed
// seeds stay on disk and no merged document is produced.
func Trace(ctx context.Context, exp Expander, opts TraceOptions) (*Result, error) {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Warn == nil {
		opts.Warn = func(string, ...any) {}
	}
	if opts.Observe == nil {
		opts.Observe = func(string) {}
	}
	logger := opts.Logger.With("run_id", opts.RunID)

	if err := txgraph.ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	res := &Result{RunID: opts.RunID}

	var seeds []string
	seen := make(map[string]struct{}, len(opts.Seeds))
	for _, raw := range opts.Seeds {
		seed := domain.NormalizeAddress(raw)
		if err := domain.ValidateAddress(seed); err != nil {
			opts.Warn("%v, skipping", err)
			res.Seeds = append(res.Seeds, tui.SeedResult{Seed: seed, Status: OutcomeSkipped})
			opts.Observe(OutcomeSkipped)
			continue
		}
		if _, dup := seen[seed]; dup {
			logger.Debug("Duplicate seed ignored", "seed", seed)
			continue
		}
		seen[seed] = struct{}{}
		seeds = append(seeds, seed)
	}

	for _, seed := range seeds {
		seedLogger := logger.With("seed", seed)
		seedLogger.Info("Tracing seed")

		doc, err := exp.Expand(ctx, seed)
		if err != nil {
			opts.Observe(OutcomeFailed)
			res.Seeds = append(res.Seeds, tui.SeedResult{Seed: seed, Status: OutcomeFailed})
			return res, fmt.Errorf("seed %s: %w", seed, err)
		}

		path := graph.DocumentPath(opts.DataDir, seed)
		if doc.Empty {
			// A stale document from an earlier run must not leak into the merge.
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return res, fmt.Errorf("failed to remove stale document: %w", err)
			}
			opts.Observe(OutcomeEmpty)
			res.Seeds = append(res.Seeds, tui.SeedResult{Seed: seed, Status: OutcomeEmpty})
			continue
		}

		if err := writeFileAtomic(path, []byte(graph.GenerateDOT(doc))); err != nil {
			return res, err
		}
		if opts.Format == txgraph.FormatMermaid {
			text, err := txgraph.Render(doc, txgraph.FormatMermaid)
			if err != nil {
				return res, fmt.Errorf("seed %s: %w", seed, err)
			}
			if err := writeFileAtomic(filepath.Join(opts.DataDir, seed+".mmd"), []byte(text)); err != nil {
				return res, err
			}
		}

		for _, sink := range opts.Sinks {
			if err := sink.Publish(ctx, seed, doc.Edges); err != nil {
				return res, fmt.Errorf("seed %s: %w", seed, err)
			}
		}

		render(ctx, opts, path, seedLogger)

		seedLogger.Info("Document written", "path", path, "edges", len(doc.Edges))
		opts.Observe(OutcomeOK)
		res.Seeds = append(res.Seeds, tui.SeedResult{Seed: seed, Status: OutcomeOK, Edges: len(doc.Edges), Path: path})
	}

	if graph.ShouldMerge(len(seeds), opts.Merge.Truncate) {
		docs := graph.ReadDocuments(opts.DataDir, seeds)
		merged := graph.Merge(docs, seeds, opts.Merge)
		path := filepath.Join(opts.DataDir, "merged-"+opts.Start.Format(RunstampLayout)+graph.Extension)
		if err := writeFileAtomic(path, []byte(merged)); err != nil {
			return res, err
		}
		render(ctx, opts, path, logger)
		logger.Info("Merged document written", "path", path, "documents", len(docs))
		res.Merged = path
	}

	return res, nil
}

func render(ctx context.Context, opts TraceOptions, path string, logger *slog.Logger) {
	if opts.Renderer == nil || opts.RenderFormat == "" {
		return
	}
	out, err := opts.Renderer.Render(ctx, path, opts.RenderFormat)
	if err != nil {
		opts.Warn("render %s: %v", path, err)
		return
	}
	logger.Debug("Document rendered", "path", out)
}

// writeFileAtomic writes data to a temp file in the same directory and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to replace %s: %w", path, err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
