package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/txgraph/pkg/adapters/file"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.RecordStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunRecordStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.KindAddress, "1BoatSLRHtKNngkdXEeobR76b53LETtpyT", []byte(`{}`)))
	require.NoError(t, store.Save(ctx, domain.KindTransaction, "f4184fc5", []byte(`{}`)))

	assert.FileExists(t, filepath.Join(dir, "address", "1BoatSLRHtKNngkdXEeobR76b53LETtpyT.json"))
	assert.FileExists(t, filepath.Join(dir, "transaction", "f4184fc5.json"))
}

func TestFileStore_TruncatedRecordIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "transaction"), 0755))
	partial := filepath.Join(dir, "transaction", "deadbeef.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"data":{"deadbeef":{"inpu`), 0644))

	_, err := store.Load(context.Background(), domain.KindTransaction, "deadbeef")
	assert.ErrorIs(t, err, domain.ErrCorruptCache)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_MissingDirectoryIsNotFound(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "never-created"))

	_, err := store.Load(context.Background(), domain.KindAddress, "anything")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := store.List(context.Background(), domain.KindAddress)
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileStore_ListIgnoresGarbage(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.KindAddress, "a1", []byte(`{}`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "address", "notes.txt"), []byte("garbage"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "address", "tmp-a2-123.json"), []byte("{"), 0644))

	list, err := store.List(ctx, domain.KindAddress)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, list)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.New(t.TempDir())
	err := store.Save(context.Background(), domain.KindAddress, "../escape", []byte(`{}`))
	assert.Error(t, err)
}
