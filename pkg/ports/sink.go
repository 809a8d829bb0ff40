package ports

import (
	"context"

	"github.com/aretw0/txgraph/pkg/edges"
)

// EdgeSink receives the deduplicated edges of one seed graph.
type EdgeSink interface {
	Publish(ctx context.Context, seed string, list []edges.Edge) error
	Close() error
}
