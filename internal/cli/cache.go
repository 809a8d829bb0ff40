package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/txgraph/internal/presentation/tui"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/ports"
)

// CacheSession holds the record store opened for a cache command.
type CacheSession struct {
	Store ports.RecordStore
	close func() error
}

// OpenCache opens the configured record store.
func OpenCache(opts RunOptions, stderr io.Writer) (*CacheSession, error) {
	cfg, err := LoadConfig(opts.ConfigPath, opts.DataDir, tui.NewPrinter(stderr).Warn)
	if err != nil {
		return nil, err
	}
	store, closeFn, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	return &CacheSession{Store: store, close: closeFn}, nil
}

// Close releases the store.
func (c *CacheSession) Close() error {
	return c.close()
}

// ListCache prints the cached hashes of kind, sorted.
func ListCache(ctx context.Context, store ports.RecordStore, kind string, w io.Writer) error {
	k, err := domain.ParseKind(kind)
	if err != nil {
		return err
	}
	hashes, err := store.List(ctx, k)
	if err != nil {
		return err
	}
	sort.Strings(hashes)
	for _, h := range hashes {
		fmt.Fprintln(w, h)
	}
	return nil
}

// InspectCache prints one cached record as indented JSON.
func InspectCache(ctx context.Context, store ports.RecordStore, kind, hash string, w io.Writer) error {
	k, err := domain.ParseKind(kind)
	if err != nil {
		return err
	}
	raw, err := store.Load(ctx, k, hash)
	if err != nil {
		return fmt.Errorf("%s %s: %w", k, hash, err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorruptCache, err)
	}
	buf.WriteString("\n")
	_, err = buf.WriteTo(w)
	return err
}

// RemoveCache deletes cached records of kind.
func RemoveCache(ctx context.Context, store ports.RecordStore, kind string, hashes []string, w io.Writer) error {
	k, err := domain.ParseKind(kind)
	if err != nil {
		return err
	}
	for _, h := range hashes {
		if err := store.Delete(ctx, k, h); err != nil {
			return fmt.Errorf("%s %s: %w", k, h, err)
		}
		fmt.Fprintf(w, "removed %s %s\n", k, h)
	}
	return nil
}
