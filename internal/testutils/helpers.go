package testutils

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aretw0/txgraph/pkg/adapters/memory"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/stretchr/testify/require"
)

// Output describes one transaction output in a fixture.
type Output struct {
	Recipient string
	Value     int64
	ValueUSD  float64
	Time      string
}

// AddressJSON renders a Blockchair-shaped address dashboard.
func AddressJSON(t *testing.T, hash string, txs ...string) string {
	t.Helper()
	if txs == nil {
		txs = []string{}
	}
	return mustJSON(t, map[string]any{
		"data": map[string]any{
			hash: map[string]any{
				"address":      map[string]any{"transaction_count": len(txs)},
				"transactions": txs,
			},
		},
		"context": map[string]any{"code": 200},
	})
}

// TransactionJSON renders a Blockchair-shaped transaction dashboard.
func TransactionJSON(t *testing.T, hash string, inputs []string, outputs []Output) string {
	t.Helper()
	ins := make([]map[string]any, 0, len(inputs))
	for _, in := range inputs {
		ins = append(ins, map[string]any{"recipient": in})
	}
	outs := make([]map[string]any, 0, len(outputs))
	for _, o := range outputs {
		entry := map[string]any{"recipient": o.Recipient, "value": o.Value}
		if o.Time != "" {
			entry["time"] = o.Time
		}
		if o.ValueUSD != 0 {
			entry["value_usd"] = o.ValueUSD
		}
		outs = append(outs, entry)
	}
	return mustJSON(t, map[string]any{
		"data": map[string]any{
			hash: map[string]any{"inputs": ins, "outputs": outs},
		},
		"context": map[string]any{"code": 200},
	})
}

// Chain is a fixture builder for a small transaction graph served by a memory.Provider.
type Chain struct {
	t        *testing.T
	Provider *memory.Provider
	txs      map[string][]string
}

// NewChain creates an empty fixture graph.
func NewChain(t *testing.T) *Chain {
	t.Helper()
	return &Chain{t: t, Provider: memory.NewProvider(), txs: make(map[string][]string)}
}

// Tx registers a transaction and links it to every address it touches.
func (c *Chain) Tx(hash string, inputs []string, outputs ...Output) *Chain {
	c.t.Helper()
	c.Provider.Add(domain.KindTransaction, hash, TransactionJSON(c.t, hash, inputs, outputs))
	touched := append([]string{}, inputs...)
	for _, o := range outputs {
		touched = append(touched, o.Recipient)
	}
	for _, addr := range touched {
		if !contains(c.txs[addr], hash) {
			c.txs[addr] = append(c.txs[addr], hash)
		}
	}
	return c
}

// Addr registers an address with an explicit transaction list (possibly empty).
func (c *Chain) Addr(hash string, txs ...string) *Chain {
	c.t.Helper()
	c.txs[hash] = txs
	return c
}

// Build registers every address dashboard and returns the provider.
func (c *Chain) Build() *memory.Provider {
	c.t.Helper()
	for addr, txs := range c.txs {
		c.Provider.Add(domain.KindAddress, addr, AddressJSON(c.t, addr, txs...))
	}
	return c.Provider
}

// Addr27 pads a short label into a syntactically valid address.
func Addr27(label string) string {
	return fmt.Sprintf("%s%0*d", label, 30-len(label), 0)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
