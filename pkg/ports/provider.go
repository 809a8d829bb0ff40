package ports

import (
	"context"

	"github.com/aretw0/txgraph/pkg/domain"
)

// Provider fetches raw records from a chain data provider.
// Structured provider errors are reported as domain.ErrQuotaExceeded or
// domain.ErrProvider and must abort the run.
type Provider interface {
	Fetch(ctx context.Context, kind domain.Kind, hash string) ([]byte, error)
}

// Decoder turns raw provider records into domain records.
type Decoder interface {
	DecodeAddress(hash string, raw []byte) (*domain.Address, error)
	DecodeTransaction(hash string, raw []byte) (*domain.Transaction, error)
}
