package txgraph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/testutils"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type out = testutils.Output

func TestFacade_CacheThenOffline(t *testing.T) {
	seed := testutils.Addr27("S")
	recipient := testutils.Addr27("R")
	provider := testutils.NewChain(t).
		Tx("T1", []string{seed}, out{Recipient: recipient, Value: 50000000}).
		Build()

	dataDir := t.TempDir()
	ctx := context.Background()
	annotator := edges.Annotator{Values: edges.ValueSet{Native: true}}

	// 1. Local-first run populates the file cache.
	online, err := txgraph.New(dataDir, txgraph.WithProvider(provider), txgraph.WithAnnotator(annotator))
	require.NoError(t, err)

	first, err := online.Expand(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, []edges.Edge{{Payer: seed, Recipient: recipient, Annotation: "BTC0.5"}}, first.Edges)

	_, err = os.Stat(filepath.Join(dataDir, "address", seed+".json"))
	require.NoError(t, err, "raw address record should be cached")
	_, err = os.Stat(filepath.Join(dataDir, "transaction", "T1.json"))
	require.NoError(t, err, "raw transaction record should be cached")

	// 2. Offline run reproduces the document from the cache alone.
	offline, err := txgraph.New(dataDir, txgraph.WithPolicy(domain.PolicyOffline), txgraph.WithAnnotator(annotator))
	require.NoError(t, err)

	second, err := offline.Expand(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, first.Edges, second.Edges)
}

func TestFacade_RejectsInvalidAddress(t *testing.T) {
	eng, err := txgraph.New(t.TempDir(), txgraph.WithPolicy(domain.PolicyOffline))
	require.NoError(t, err)

	_, err = eng.Expand(context.Background(), "short")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestNew_RequiresDataDir(t *testing.T) {
	_, err := txgraph.New("")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	doc := &edges.Document{Seed: "A", Edges: []edges.Edge{{Payer: "A", Recipient: "B"}}}

	dot, err := txgraph.Render(doc, txgraph.FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, `"A" -> "B";`)

	mermaid, err := txgraph.Render(doc, txgraph.FormatMermaid)
	require.NoError(t, err)
	assert.Contains(t, mermaid, "A --> B")
	assert.Contains(t, mermaid, "class A seed;")

	_, err = txgraph.Render(doc, "svg")
	assert.Error(t, err)
}
