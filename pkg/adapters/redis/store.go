package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/txgraph/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.RecordStore using Redis.
// Records live at <prefix><kind>:<hash>; each kind keeps a SET index of its hashes.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for cached records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "txgraph:",
		ttl:    0, // Chain records are immutable; no expiration by default.
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so other adapters (e.g. the locker) can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(kind domain.Kind, hash string) string {
	return s.prefix + string(kind) + ":" + hash
}

func (s *Store) indexKey(kind domain.Kind) string {
	return s.prefix + string(kind) + ":index"
}

// Save persists the record to Redis and indexes its hash.
func (s *Store) Save(ctx context.Context, kind domain.Kind, hash string, raw []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(kind, hash), raw, s.ttl)
	pipe.SAdd(ctx, s.indexKey(kind), hash)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the record from Redis.
func (s *Store) Load(ctx context.Context, kind domain.Kind, hash string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(kind, hash)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	if !json.Valid(val) {
		return nil, fmt.Errorf("%w: %s/%s is not valid JSON", domain.ErrCorruptCache, kind, hash)
	}

	return val, nil
}

// Delete removes the record and its index entry.
func (s *Store) Delete(ctx context.Context, kind domain.Kind, hash string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(kind, hash))
	pipe.SRem(ctx, s.indexKey(kind), hash)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the indexed hashes of a kind.
// Index entries whose record expired are pruned lazily.
func (s *Store) List(ctx context.Context, kind domain.Kind) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if s.ttl == 0 {
		return members, nil
	}

	live := make([]string, 0, len(members))
	for _, hash := range members {
		n, err := s.client.Exists(ctx, s.key(kind, hash)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check record: %w", err)
		}
		if n == 0 {
			if err := s.client.SRem(ctx, s.indexKey(kind), hash).Err(); err != nil {
				return nil, fmt.Errorf("failed to prune expired record: %w", err)
			}
			continue
		}
		live = append(live, hash)
	}
	return live, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
