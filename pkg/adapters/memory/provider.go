package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/txgraph/pkg/domain"
)

// Provider implements ports.Provider using an in-memory map of raw responses.
// It counts fetches per kind, which makes it the fixture of choice for tests.
type Provider struct {
	records map[recordKey][]byte
	errs    map[recordKey]error

	mu      sync.Mutex
	fetches map[domain.Kind]int
	calls   []string
}

// NewProvider creates an empty Provider.
func NewProvider() *Provider {
	return &Provider{
		records: make(map[recordKey][]byte),
		errs:    make(map[recordKey]error),
		fetches: make(map[domain.Kind]int),
	}
}

// Add registers a raw response for a record.
func (p *Provider) Add(kind domain.Kind, hash string, raw string) *Provider {
	p.records[recordKey{kind, hash}] = []byte(raw)
	return p
}

// Fail makes fetching the record return err.
func (p *Provider) Fail(kind domain.Kind, hash string, err error) *Provider {
	p.errs[recordKey{kind, hash}] = err
	return p
}

// Fetch returns the registered response, or an error wrapping domain.ErrProvider.
func (p *Provider) Fetch(ctx context.Context, kind domain.Kind, hash string) ([]byte, error) {
	p.mu.Lock()
	p.fetches[kind]++
	p.calls = append(p.calls, string(kind)+"/"+hash)
	p.mu.Unlock()

	key := recordKey{kind, hash}
	if err, ok := p.errs[key]; ok {
		return nil, err
	}
	raw, ok := p.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: no fixture for %s %s", domain.ErrProvider, kind, hash)
	}
	return raw, nil
}

// Fetches returns how many times records of kind were fetched.
func (p *Provider) Fetches(kind domain.Kind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches[kind]
}

// Calls returns every fetched "kind/hash" in call order.
func (p *Provider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}
