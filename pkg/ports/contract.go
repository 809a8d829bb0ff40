package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRecordStoreContract runs a suite of tests to verify that a RecordStore implementation
// adheres to the defined interface contract.
func RunRecordStoreContract(t *testing.T, store RecordStore) {
	ctx := context.Background()
	hash := "contract" + time.Now().Format("20060102150405")
	record := []byte(`{"data":{"x":{"transactions":["a","b"]}}}`)

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, domain.KindAddress, hash, record)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, domain.KindAddress, hash)
		require.NoError(t, err, "Load should not return error")
		assert.JSONEq(t, string(record), string(loaded))
	})

	t.Run("Kinds Are Namespaced", func(t *testing.T) {
		_, err := store.Load(ctx, domain.KindTransaction, hash)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		updated := []byte(`{"data":{}}`)
		require.NoError(t, store.Save(ctx, domain.KindAddress, hash, updated))

		loaded, err := store.Load(ctx, domain.KindAddress, hash)
		require.NoError(t, err)
		assert.JSONEq(t, string(updated), string(loaded))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, domain.KindAddress, "missing"+hash)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Corrupt Record", func(t *testing.T) {
		corrupt := "corrupt" + hash
		require.NoError(t, store.Save(ctx, domain.KindTransaction, corrupt, []byte(`{"data":{"x":`)))
		defer func() { _ = store.Delete(ctx, domain.KindTransaction, corrupt) }()

		_, err := store.Load(ctx, domain.KindTransaction, corrupt)
		assert.ErrorIs(t, err, domain.ErrCorruptCache, "a truncated record must not load")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.KindTransaction, hash, record))

		err := store.Delete(ctx, domain.KindTransaction, hash)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, domain.KindTransaction, hash)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Load after Delete should return ErrNotFound")

		assert.NoError(t, store.Delete(ctx, domain.KindTransaction, "ghost"+hash), "Delete should be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := hash + "1"
		id2 := hash + "2"
		require.NoError(t, store.Save(ctx, domain.KindTransaction, id1, record))
		require.NoError(t, store.Save(ctx, domain.KindTransaction, id2, record))

		defer func() {
			_ = store.Delete(ctx, domain.KindTransaction, id1)
			_ = store.Delete(ctx, domain.KindTransaction, id2)
		}()

		hashes, err := store.List(ctx, domain.KindTransaction)
		require.NoError(t, err)
		assert.Contains(t, hashes, id1)
		assert.Contains(t, hashes, id2)
		assert.NotContains(t, hashes, hash, "address records must not leak into the transaction listing")
	})
}
