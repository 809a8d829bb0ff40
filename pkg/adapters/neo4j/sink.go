// Package neo4j merges seed graph edges into a Neo4j database as
// (:Address)-[:SENT_TO]->(:Address) relationships.
package neo4j

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MergeQuery upserts a batch of edges. Distinct annotations yield distinct relationships.
const MergeQuery = `
UNWIND $edges AS edge
MERGE (payer:Address {id: edge.payer})
MERGE (recipient:Address {id: edge.recipient})
MERGE (payer)-[sent:SENT_TO {annotation: edge.annotation}]->(recipient)
SET sent.seed = $seed
`

// QueryRunner executes a write query.
type QueryRunner interface {
	Run(ctx context.Context, query string, params map[string]any) error
	Close(ctx context.Context) error
}

// Sink implements ports.EdgeSink on top of a QueryRunner.
type Sink struct {
	runner QueryRunner
	logger *slog.Logger
}

// Option configures the Sink.
type Option func(*Sink)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// New connects to uri with basic auth and writes into database ("" for the default).
func New(ctx context.Context, uri, username, password, database string, opts ...Option) (*Sink, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j at %s: %w", uri, err)
	}
	return NewWithRunner(&driverRunner{driver: driver, database: database}, opts...), nil
}

// NewWithRunner creates a Sink on an existing runner.
func NewWithRunner(runner QueryRunner, opts ...Option) *Sink {
	s := &Sink{
		runner: runner,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish merges every edge of seed in one query.
func (s *Sink) Publish(ctx context.Context, seed string, list []edges.Edge) error {
	if len(list) == 0 {
		return nil
	}

	rows := make([]any, 0, len(list))
	for _, e := range list {
		rows = append(rows, map[string]any{
			"payer":      e.Payer,
			"recipient":  e.Recipient,
			"annotation": e.Annotation,
		})
	}

	params := map[string]any{"seed": seed, "edges": rows}
	if err := s.runner.Run(ctx, MergeQuery, params); err != nil {
		return fmt.Errorf("failed to merge %d edges of %s: %w", len(list), seed, err)
	}

	s.logger.Debug("Merged edges", "seed", seed, "count", len(list))
	return nil
}

// Close releases the underlying driver.
func (s *Sink) Close() error {
	return s.runner.Close(context.Background())
}

type driverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (r *driverRunner) Run(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, r.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.database),
	)
	return err
}

func (r *driverRunner) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}
