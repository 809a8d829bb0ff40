// Package expander implements the bounded frontier walk that discovers the
// transaction graph around a seed address.
//
// The walk is not a breadth-first closure: it visits at most MaxIterations
// frontier positions by index, however large the frontier grows. Addresses
// discovered beyond that bound appear only as edge endpoints.
package expander

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
)

// MaxIterations is the number of address expansions performed per seed.
const MaxIterations = 6

// Resolver is the subset of resolver.Resolver the expander needs.
type Resolver interface {
	ResolveAddress(ctx context.Context, hash string) (*domain.Address, error)
	ResolveTransaction(ctx context.Context, hash string) (*domain.Transaction, error)
}

// Expander builds the edge document of one seed address.
type Expander struct {
	resolver  Resolver
	annotator edges.Annotator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option configures the Expander.
type Option func(*Expander)

// WithAnnotator sets the edge annotation options.
func WithAnnotator(a edges.Annotator) Option {
	return func(e *Expander) {
		e.annotator = a
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Expander) {
		e.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) {
		e.logger = logger
	}
}

// New creates an Expander on top of a resolver.
func New(r Resolver, opts ...Option) *Expander {
	e := &Expander{
		resolver: r,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand walks the frontier of seed and returns its edge document.
// A seed with no transactions, or absent in lenient offline mode, yields an
// empty document flagged Empty. Any other resolution error aborts the expansion.
func (e *Expander) Expand(ctx context.Context, seed string) (*edges.Document, error) {
	logger := e.logger.With("seed", seed)

	seedRecord, err := e.resolver.ResolveAddress(ctx, seed)
	if errors.Is(err, domain.ErrAbsent) {
		logger.Warn("Seed address not cached, nothing to expand")
		return &edges.Document{Seed: seed, Empty: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if !seedRecord.HasActivity() {
		logger.Warn("Seed address has no transactions")
		return &edges.Document{Seed: seed, Empty: true}, nil
	}

	frontier := NewFrontier(seed)
	set := edges.NewSet()

	for i := 0; i < MaxIterations && i < frontier.Len(); i++ {
		var current *domain.Address
		if i == 0 {
			// Frontier[0] is the seed; reuse the record resolved above.
			current = seedRecord
		} else {
			current, err = e.resolver.ResolveAddress(ctx, frontier.At(i))
			if errors.Is(err, domain.ErrAbsent) {
				continue
			}
			if err != nil {
				return nil, err
			}
		}

		logger.Info("Address", "iteration", i, "address", current.Hash)

		added, err := e.expandAddress(ctx, current, frontier, set)
		if err != nil {
			return nil, err
		}

		e.hooks.EmitExpand(ctx, &domain.ExpandEvent{
			EventBase:    domain.EventBase{Timestamp: time.Now(), Seed: seed},
			Iteration:    i,
			Address:      current.Hash,
			FrontierSize: frontier.Len(),
			EdgesAdded:   added,
		})
	}

	logger.Info("Expansion finished", "frontier", frontier.Len(), "edges", set.Len())
	return &edges.Document{Seed: seed, Edges: set.Edges()}, nil
}

// expandAddress resolves every transaction of addr, grows the frontier and adds edges.
func (e *Expander) expandAddress(ctx context.Context, addr *domain.Address, frontier *Frontier, set *edges.Set) (int, error) {
	added := 0
	for _, hash := range addr.Transactions {
		tx, err := e.resolver.ResolveTransaction(ctx, hash)
		if errors.Is(err, domain.ErrAbsent) {
			continue
		}
		if err != nil {
			return added, err
		}

		e.logger.Debug("Transaction", "hash", hash, "inputs", len(tx.Inputs), "outputs", len(tx.Outputs))

		payers := tx.Payers()
		for _, p := range payers {
			frontier.Add(p)
		}
		recipients := e.annotator.Label(tx.Outputs)
		for _, r := range recipients {
			frontier.Add(r.Address)
		}

		added += set.Connect(payers, recipients)
	}
	return added, nil
}
