package neo4j_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/txgraph/pkg/adapters/neo4j"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.EdgeSink = (*neo4j.Sink)(nil)

type recordingRunner struct {
	queries []string
	params  []map[string]any
	err     error
	closed  bool
}

func (r *recordingRunner) Run(_ context.Context, query string, params map[string]any) error {
	r.queries = append(r.queries, query)
	r.params = append(r.params, params)
	return r.err
}

func (r *recordingRunner) Close(context.Context) error {
	r.closed = true
	return nil
}

func TestSink_Publish(t *testing.T) {
	runner := &recordingRunner{}
	sink := neo4j.NewWithRunner(runner)

	err := sink.Publish(context.Background(), "S", []edges.Edge{
		{Payer: "S", Recipient: "A", Annotation: "BTC1.0"},
		{Payer: "B", Recipient: "S"},
	})
	require.NoError(t, err)

	require.Len(t, runner.queries, 1)
	assert.Equal(t, neo4j.MergeQuery, runner.queries[0])
	assert.Equal(t, "S", runner.params[0]["seed"])
	assert.Equal(t, []any{
		map[string]any{"payer": "S", "recipient": "A", "annotation": "BTC1.0"},
		map[string]any{"payer": "B", "recipient": "S", "annotation": ""},
	}, runner.params[0]["edges"])

	require.NoError(t, sink.Close())
	assert.True(t, runner.closed)
}

func TestSink_PublishEmptyIsNoop(t *testing.T) {
	runner := &recordingRunner{}
	require.NoError(t, neo4j.NewWithRunner(runner).Publish(context.Background(), "S", nil))
	assert.Empty(t, runner.queries)
}

func TestSink_PublishFailure(t *testing.T) {
	boom := errors.New("connection refused")
	sink := neo4j.NewWithRunner(&recordingRunner{err: boom})

	err := sink.Publish(context.Background(), "S", []edges.Edge{{Payer: "S", Recipient: "A"}})
	assert.ErrorIs(t, err, boom)
}
