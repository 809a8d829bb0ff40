// Package resolver decides whether a record comes from the local cache or the network.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/ports"
)

// Resolver returns address and transaction records under a data-source policy.
type Resolver struct {
	store    ports.RecordStore
	provider ports.Provider
	decoder  ports.Decoder
	policy   domain.Policy
	lenient  bool
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithPolicy selects the data-source policy (default domain.PolicyLocalFirst).
func WithPolicy(p domain.Policy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// WithLenient makes offline cache misses yield domain.ErrAbsent instead of failing.
func WithLenient(lenient bool) Option {
	return func(r *Resolver) {
		r.lenient = lenient
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Resolver) {
		r.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver. provider may be nil when the policy is domain.PolicyOffline.
func New(store ports.RecordStore, provider ports.Provider, decoder ports.Decoder, opts ...Option) *Resolver {
	r := &Resolver{
		store:    store,
		provider: provider,
		decoder:  decoder,
		policy:   domain.PolicyLocalFirst,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the configured data-source policy.
func (r *Resolver) Policy() domain.Policy {
	return r.policy
}

// ResolveAddress returns the address record for hash.
// In lenient offline mode a cache miss returns domain.ErrAbsent.
func (r *Resolver) ResolveAddress(ctx context.Context, hash string) (*domain.Address, error) {
	raw, src, err := r.resolve(ctx, domain.KindAddress, hash)
	if err != nil {
		return nil, err
	}
	addr, err := r.decoder.DecodeAddress(hash, raw)
	if err != nil {
		return nil, r.decodeError(src, err)
	}
	return addr, nil
}

// ResolveTransaction returns the transaction record for hash.
// In lenient offline mode a cache miss returns domain.ErrAbsent.
func (r *Resolver) ResolveTransaction(ctx context.Context, hash string) (*domain.Transaction, error) {
	raw, src, err := r.resolve(ctx, domain.KindTransaction, hash)
	if err != nil {
		return nil, err
	}
	tx, err := r.decoder.DecodeTransaction(hash, raw)
	if err != nil {
		return nil, r.decodeError(src, err)
	}
	return tx, nil
}

func (r *Resolver) decodeError(src domain.Source, err error) error {
	if src == domain.SourceCache {
		return fmt.Errorf("%w: %w", domain.ErrCorruptCache, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrProvider, err)
}

func (r *Resolver) resolve(ctx context.Context, kind domain.Kind, hash string) ([]byte, domain.Source, error) {
	switch r.policy {
	case domain.PolicyOffline:
		raw, err := r.store.Load(ctx, kind, hash)
		if err == nil {
			r.emit(ctx, kind, hash, domain.SourceCache)
			return raw, domain.SourceCache, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, "", err
		}
		if !r.lenient {
			return nil, "", fmt.Errorf("%w: %s %s", domain.ErrMissingCache, kind, hash)
		}
		r.logger.Warn("Record missing from cache, skipping", "kind", kind, "hash", hash)
		r.emit(ctx, kind, hash, domain.SourceAbsent)
		return nil, domain.SourceAbsent, domain.ErrAbsent

	case domain.PolicyNetworkOnly:
		raw, err := r.fetch(ctx, kind, hash)
		return raw, domain.SourceNetwork, err

	default:
		raw, err := r.store.Load(ctx, kind, hash)
		if err == nil {
			r.emit(ctx, kind, hash, domain.SourceCache)
			return raw, domain.SourceCache, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, "", err
		}
		raw, err = r.fetch(ctx, kind, hash)
		return raw, domain.SourceNetwork, err
	}
}

// fetch downloads a record and persists it before returning.
func (r *Resolver) fetch(ctx context.Context, kind domain.Kind, hash string) ([]byte, error) {
	if r.provider == nil {
		return nil, fmt.Errorf("%w: no provider configured for %s %s", domain.ErrProvider, kind, hash)
	}

	r.logger.Info("Fetching", "kind", kind, "hash", hash)
	raw, err := r.provider.Fetch(ctx, kind, hash)
	if err != nil {
		return nil, err
	}

	if err := r.store.Save(ctx, kind, hash, raw); err != nil {
		return nil, fmt.Errorf("failed to cache %s %s: %w", kind, hash, err)
	}

	r.emit(ctx, kind, hash, domain.SourceNetwork)
	return raw, nil
}

func (r *Resolver) emit(ctx context.Context, kind domain.Kind, hash string, src domain.Source) {
	r.hooks.EmitResolve(ctx, &domain.ResolveEvent{
		EventBase: domain.EventBase{Timestamp: time.Now()},
		Kind:      kind,
		Hash:      hash,
		Source:    src,
	})
}
