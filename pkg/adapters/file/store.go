package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/txgraph/pkg/domain"
)

// Store implements ports.RecordStore using the local filesystem.
// Each record is a JSON file at <BasePath>/<kind>/<hash>.json.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to "data".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "data"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) dir(kind domain.Kind) string {
	return filepath.Join(s.BasePath, string(kind))
}

func (s *Store) path(kind domain.Kind, hash string) string {
	return filepath.Join(s.dir(kind), hash+".json")
}

func validateKey(kind domain.Kind, hash string) error {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return err
	}
	if hash == "" {
		return fmt.Errorf("hash cannot be empty")
	}
	if strings.ContainsAny(hash, `/\`) || hash == "." || hash == ".." {
		return fmt.Errorf("invalid hash %q", hash)
	}
	return nil
}

// Save persists the record to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, kind domain.Kind, hash string, raw []byte) error {
	if err := validateKey(kind, hash); err != nil {
		return err
	}

	dir := s.dir(kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	destPath := s.path(kind, hash)

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+hash+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(raw); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing record for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to record: %w", err)
	}

	return nil
}

// Load retrieves the record from its JSON file.
func (s *Store) Load(ctx context.Context, kind domain.Kind, hash string) ([]byte, error) {
	if err := validateKey(kind, hash); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(kind, hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s/%s is not valid JSON", domain.ErrCorruptCache, kind, hash)
	}

	return data, nil
}

// Delete removes the record file.
func (s *Store) Delete(ctx context.Context, kind domain.Kind, hash string) error {
	if err := validateKey(kind, hash); err != nil {
		return err
	}

	err := os.Remove(s.path(kind, hash))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}

	return nil
}

// List returns the hashes of every cached record of the given kind.
func (s *Store) List(ctx context.Context, kind domain.Kind) ([]string, error) {
	entries, err := os.ReadDir(s.dir(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}

	hashes := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		hashes = append(hashes, strings.TrimSuffix(name, ".json"))
	}

	return hashes, nil
}
