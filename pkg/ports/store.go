package ports

import (
	"context"

	"github.com/aretw0/txgraph/pkg/domain"
)

// RecordStore defines the interface for caching raw provider records.
// Records are opaque JSON documents keyed by (kind, hash).
type RecordStore interface {
	// Save persists the raw record, overwriting any prior value.
	Save(ctx context.Context, kind domain.Kind, hash string, raw []byte) error

	// Load retrieves the raw record.
	// Returns domain.ErrNotFound if no record exists, and an error wrapping
	// domain.ErrCorruptCache if the stored bytes are not a JSON document.
	Load(ctx context.Context, kind domain.Kind, hash string) ([]byte, error)

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, kind domain.Kind, hash string) error

	// List returns the hashes of every record of the given kind.
	List(ctx context.Context, kind domain.Kind) ([]string, error)
}
