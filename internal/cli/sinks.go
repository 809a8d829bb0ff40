package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/txgraph/internal/config"
	"github.com/aretw0/txgraph/pkg/adapters/kafka"
	"github.com/aretw0/txgraph/pkg/adapters/neo4j"
	"github.com/aretw0/txgraph/pkg/ports"
)

// createSinks opens the edge sinks enabled in cfg.
func createSinks(ctx context.Context, cfg *config.Config, runID string, logger *slog.Logger) ([]ports.EdgeSink, error) {
	var sinks []ports.EdgeSink

	if cfg.Kafka.Topic != "" {
		s, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			kafka.WithRunID(runID),
			kafka.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if cfg.Neo4j.URI != "" {
		s, err := neo4j.New(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database,
			neo4j.WithLogger(logger),
		)
		if err != nil {
			_ = closeSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, s)
	}

	return sinks, nil
}

func closeSinks(sinks []ports.EdgeSink) error {
	var errs []error
	for _, s := range sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
