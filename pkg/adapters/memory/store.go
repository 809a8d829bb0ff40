package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/txgraph/pkg/domain"
)

type recordKey struct {
	kind domain.Kind
	hash string
}

// Store implements ports.RecordStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[recordKey][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[recordKey][]byte),
	}
}

// Save persists a copy of the record in memory.
func (s *Store) Save(ctx context.Context, kind domain.Kind, hash string, raw []byte) error {
	copied := make([]byte, len(raw))
	copy(copied, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[recordKey{kind, hash}] = copied
	return nil
}

// Load retrieves a copy of the record so callers cannot mutate the stored bytes.
func (s *Store) Load(ctx context.Context, kind domain.Kind, hash string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[recordKey{kind, hash}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %s/%s is not valid JSON", domain.ErrCorruptCache, kind, hash)
	}

	ret := make([]byte, len(raw))
	copy(ret, raw)
	return ret, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, kind domain.Kind, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, recordKey{kind, hash})
	return nil
}

// List returns the cached hashes of a kind.
func (s *Store) List(ctx context.Context, kind domain.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hashes := make([]string, 0, len(s.data))
	for k := range s.data {
		if k.kind == kind {
			hashes = append(hashes, k.hash)
		}
	}
	return hashes, nil
}
