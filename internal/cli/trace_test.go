package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/presentation/graph"
	"github.com/aretw0/txgraph/internal/testutils"
	"github.com/aretw0/txgraph/pkg/adapters/memory"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type out = testutils.Output

var (
	seedA  = testutils.Addr27("SA")
	seedB  = testutils.Addr27("SB")
	shared = testutils.Addr27("X")
	other  = testutils.Addr27("Y")
)

// twoSeedChain: A pays X, X pays B, B pays Y. Both seeds see the X -> B edge.
func twoSeedChain(t *testing.T) *memory.Provider {
	return testutils.NewChain(t).
		Tx("T1", []string{seedA}, out{Recipient: shared}).
		Tx("T2", []string{shared}, out{Recipient: seedB}).
		Tx("T3", []string{seedB}, out{Recipient: other}).
		Build()
}

func newEngine(t *testing.T, provider *memory.Provider) *txgraph.Engine {
	t.Helper()
	eng, err := txgraph.New("", txgraph.WithStore(memory.NewStore()), txgraph.WithProvider(provider))
	require.NoError(t, err)
	return eng
}

type recordingSink struct {
	published map[string][]edges.Edge
	err       error
}

func (s *recordingSink) Publish(_ context.Context, seed string, list []edges.Edge) error {
	if s.err != nil {
		return s.err
	}
	if s.published == nil {
		s.published = make(map[string][]edges.Edge)
	}
	s.published[seed] = list
	return nil
}

func (s *recordingSink) Close() error { return nil }

func TestTrace_TwoSeedsHighlight(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

	res, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:   []string{seedA, seedB},
		DataDir: dir,
		Merge:   graph.MergeOptions{Highlight: true},
		Start:   start,
		RunID:   "run-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	require.Len(t, res.Seeds, 2)
	assert.Equal(t, OutcomeOK, res.Seeds[0].Status)
	assert.FileExists(t, filepath.Join(dir, seedA+".dot"))
	assert.FileExists(t, filepath.Join(dir, seedB+".dot"))

	wantMerged := filepath.Join(dir, "merged-20240301-123045.dot")
	assert.Equal(t, wantMerged, res.Merged)

	data, err := os.ReadFile(wantMerged)
	require.NoError(t, err)
	text := string(data)

	assert.Equal(t, 1, strings.Count(text, fmt.Sprintf("%q [fillcolor=yellow]", seedA)))
	assert.Equal(t, 1, strings.Count(text, fmt.Sprintf("%q [fillcolor=yellow]", seedB)))

	lines := graph.EdgeLines(text)
	seen := make(map[string]bool)
	for _, l := range lines {
		assert.False(t, seen[l], "duplicate edge line %s", l)
		seen[l] = true
	}
	assert.True(t, seen[fmt.Sprintf("%q -> %q;", shared, seedB)])
}

func TestTrace_SingleSeedDoesNotMerge(t *testing.T) {
	dir := t.TempDir()
	res, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:   []string{seedA},
		DataDir: dir,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Merged)

	matches, _ := filepath.Glob(filepath.Join(dir, "merged-*.dot"))
	assert.Empty(t, matches)
}

func TestTrace_SingleSeedTruncateMerges(t *testing.T) {
	dir := t.TempDir()
	res, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:   []string{seedA},
		DataDir: dir,
		Merge:   graph.MergeOptions{Truncate: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Merged)

	data, err := os.ReadFile(res.Merged)
	require.NoError(t, err)
	got, err := graph.ParseDOT(string(data))
	require.NoError(t, err)

	for _, e := range got {
		assert.True(t, e.Payer == seedA || e.Recipient == seedA, "edge %v does not touch the seed", e)
	}
	assert.Contains(t, got, edges.Edge{Payer: seedA, Recipient: shared})
}

func TestTrace_InvalidSeedSkipped(t *testing.T) {
	var warnings []string
	res, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:   []string{"not-an-address", seedA},
		DataDir: t.TempDir(),
		Warn: func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		},
	})
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not-an-address")
	assert.Equal(t, OutcomeSkipped, res.Seeds[0].Status)
	assert.Equal(t, OutcomeOK, res.Seeds[1].Status)
}

func TestTrace_EmptySeedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	idle := testutils.Addr27("IDLE")
	provider := testutils.NewChain(t).Addr(idle).Build()

	stale := filepath.Join(dir, idle+".dot")
	require.NoError(t, os.WriteFile(stale, []byte("digraph {\n}\n"), 0644))

	res, err := Trace(context.Background(), newEngine(t, provider), TraceOptions{
		Seeds:   []string{idle},
		DataDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeEmpty, res.Seeds[0].Status)
	assert.NoFileExists(t, stale)
}

func TestTrace_QuotaAbortsRun(t *testing.T) {
	dir := t.TempDir()
	// Disjoint graphs so only the second seed reaches the failing record.
	provider := testutils.NewChain(t).
		Tx("T1", []string{seedA}, out{Recipient: shared}).
		Tx("T3", []string{seedB}, out{Recipient: other}).
		Build()
	provider.Fail(domain.KindTransaction, "T3", fmt.Errorf("%w (code 430): limit", domain.ErrQuotaExceeded))

	var outcomes []string
	res, err := Trace(context.Background(), newEngine(t, provider), TraceOptions{
		Seeds:   []string{seedA, seedB},
		DataDir: dir,
		Merge:   graph.MergeOptions{Highlight: true},
		Observe: func(o string) { outcomes = append(outcomes, o) },
	})

	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.FileExists(t, filepath.Join(dir, seedA+".dot"), "completed seed keeps its document")
	assert.NoFileExists(t, filepath.Join(dir, seedB+".dot"), "in-flight seed must not be written")

	matches, _ := filepath.Glob(filepath.Join(dir, "merged-*.dot"))
	assert.Empty(t, matches, "aborted runs produce no merged document")
	assert.Empty(t, res.Merged)
	assert.Equal(t, []string{OutcomeOK, OutcomeFailed}, outcomes)
}

func TestTrace_MermaidAndSinks(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{}

	_, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:   []string{seedA},
		DataDir: dir,
		Format:  txgraph.FormatMermaid,
		Sinks:   []ports.EdgeSink{sink},
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, seedA+".dot"))
	assert.FileExists(t, filepath.Join(dir, seedA+".mmd"))
	assert.Contains(t, sink.published[seedA], edges.Edge{Payer: seedA, Recipient: shared})
}

func TestTrace_SinkErrorAborts(t *testing.T) {
	_, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:   []string{seedA},
		DataDir: t.TempDir(),
		Sinks:   []ports.EdgeSink{&recordingSink{err: fmt.Errorf("broker down")}},
	})
	assert.ErrorContains(t, err, "broker down")
}

type recordingRenderer struct {
	paths []string
	err   error
}

func (r *recordingRenderer) Render(_ context.Context, dotPath, format string) (string, error) {
	r.paths = append(r.paths, dotPath)
	if r.err != nil {
		return "", r.err
	}
	return strings.TrimSuffix(dotPath, graph.Extension) + "." + format, nil
}

func TestTrace_RendersEveryDocument(t *testing.T) {
	dir := t.TempDir()
	renderer := &recordingRenderer{}

	res, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:        []string{seedA, seedB},
		DataDir:      dir,
		Renderer:     renderer,
		RenderFormat: "svg",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		graph.DocumentPath(dir, seedA),
		graph.DocumentPath(dir, seedB),
		res.Merged,
	}, renderer.paths)
}

func TestTrace_RenderFailureWarns(t *testing.T) {
	var warnings []string
	renderer := &recordingRenderer{err: fmt.Errorf("dot: not found")}

	_, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:        []string{seedA},
		DataDir:      t.TempDir(),
		Renderer:     renderer,
		RenderFormat: "png",
		Warn: func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		},
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "dot: not found")
}

func TestTrace_NoRenderFormatSkipsRenderer(t *testing.T) {
	renderer := &recordingRenderer{}
	_, err := Trace(context.Background(), newEngine(t, twoSeedChain(t)), TraceOptions{
		Seeds:    []string{seedA},
		DataDir:  t.TempDir(),
		Renderer: renderer,
	})
	require.NoError(t, err)
	assert.Empty(t, renderer.paths)
}

type countingExpander struct {
	next  Expander
	calls map[string]int
}

func (c *countingExpander) Expand(ctx context.Context, seed string) (*edges.Document, error) {
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[seed]++
	return c.next.Expand(ctx, seed)
}

func TestTrace_DuplicateSeedsCollapsed(t *testing.T) {
	dir := t.TempDir()
	exp := &countingExpander{next: newEngine(t, twoSeedChain(t))}

	res, err := Trace(context.Background(), exp, TraceOptions{
		Seeds:   []string{seedA, " " + seedA + " ", seedA},
		DataDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{seedA: 1}, exp.calls)
	require.Len(t, res.Seeds, 1)
	assert.Equal(t, seedA, res.Seeds[0].Seed)
	assert.Empty(t, res.Merged, "a repeated seed is still a single seed")
}

func TestTrace_UnknownFormatRejected(t *testing.T) {
	dir := t.TempDir()
	exp := &countingExpander{next: newEngine(t, twoSeedChain(t))}

	_, err := Trace(context.Background(), exp, TraceOptions{
		Seeds:   []string{seedA},
		DataDir: dir,
		Format:  "svg",
	})
	assert.ErrorContains(t, err, "unknown format")
	assert.Empty(t, exp.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
