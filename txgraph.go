package txgraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/internal/presentation/graph"
	"github.com/aretw0/txgraph/pkg/adapters/blockchair"
	"github.com/aretw0/txgraph/pkg/adapters/file"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/aretw0/txgraph/pkg/expander"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/aretw0/txgraph/pkg/resolver"
)

// Output formats accepted by Render.
const (
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
)

// Engine is the high-level entry point for the txgraph library.
// It wires a record store, a provider and a decoder into a resolver and
// exposes the bounded expansion of a seed address.
type Engine struct {
	store     ports.RecordStore
	provider  ports.Provider
	decoder   ports.Decoder
	policy    domain.Policy
	lenient   bool
	annotator edges.Annotator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	resolver *resolver.Resolver
	expander *expander.Expander
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a RecordStore, bypassing the default file cache.
func WithStore(s ports.RecordStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithProvider injects a Provider, bypassing the default Blockchair client.
func WithProvider(p ports.Provider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithDecoder sets the decoder for raw provider records.
func WithDecoder(d ports.Decoder) Option {
	return func(e *Engine) {
		e.decoder = d
	}
}

// WithPolicy sets the record resolution policy.
func WithPolicy(p domain.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLenient makes offline cache misses skip the record instead of failing.
func WithLenient(lenient bool) Option {
	return func(e *Engine) {
		e.lenient = lenient
	}
}

// WithAnnotator sets the edge annotation options.
func WithAnnotator(a edges.Annotator) Option {
	return func(e *Engine) {
		e.annotator = a
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine.
// By default, records are cached under dataDir and fetched from Blockchair.
// If WithStore is provided, dataDir can be empty.
func New(dataDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		if dataDir == "" {
			return nil, fmt.Errorf("dataDir is required when no custom store is provided")
		}
		eng.store = file.New(dataDir)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.provider == nil && eng.policy != domain.PolicyOffline {
		eng.provider = blockchair.New(blockchair.DefaultBaseURL, blockchair.WithLogger(eng.logger))
	}
	if eng.decoder == nil {
		eng.decoder = blockchair.Codec{}
	}

	eng.resolver = resolver.New(eng.store, eng.provider, eng.decoder,
		resolver.WithPolicy(eng.policy),
		resolver.WithLenient(eng.lenient),
		resolver.WithLifecycleHooks(eng.hooks),
		resolver.WithLogger(eng.logger),
	)
	eng.expander = expander.New(eng.resolver,
		expander.WithAnnotator(eng.annotator),
		expander.WithLifecycleHooks(eng.hooks),
		expander.WithLogger(eng.logger),
	)

	return eng, nil
}

// Expand builds the edge document of one seed address.
func (e *Engine) Expand(ctx context.Context, seed string) (*edges.Document, error) {
	if err := domain.ValidateAddress(seed); err != nil {
		return nil, err
	}
	return e.expander.Expand(ctx, seed)
}

// Store returns the record store used by the engine.
func (e *Engine) Store() ports.RecordStore {
	return e.store
}

// Policy returns the resolution policy of the engine.
func (e *Engine) Policy() domain.Policy {
	return e.policy
}

// ValidateFormat reports whether Render supports format. Empty means DOT.
func ValidateFormat(format string) error {
	switch format {
	case "", FormatDOT, FormatMermaid:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatDOT, FormatMermaid)
}

// Render serializes a document in the given format.
func Render(doc *edges.Document, format string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	switch format {
	case "", FormatDOT:
		return graph.GenerateDOT(doc), nil
	case FormatMermaid:
		var overlay *graph.MermaidOverlay
		if doc != nil && doc.Seed != "" {
			overlay = &graph.MermaidOverlay{Seeds: []string{doc.Seed}}
		}
		return graph.GenerateMermaid(doc, overlay), nil
	default:
		return graph.GenerateDOT(doc), nil
	}
}
