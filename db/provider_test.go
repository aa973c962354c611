package db

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProviders(t *testing.T) map[string]IterableProvider {
	t.Helper()

	boltProvider, err := NewBoltDBProvider(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = boltProvider.Close() })

	memProvider := NewMemoryProvider()
	t.Cleanup(func() { _ = memProvider.Close() })

	return map[string]IterableProvider{
		"boltdb": boltProvider.(IterableProvider),
		"memory": memProvider.(IterableProvider),
	}
}

func TestProviderPutGetDelete(t *testing.T) {
	for name, provider := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			key := []byte("account:alice")

			value, err := provider.Get(key)
			require.NoError(t, err)
			assert.Nil(t, value, "missing key must read as nil, not error")

			require.NoError(t, provider.Put(key, []byte("v1")))
			value, err = provider.Get(key)
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), value)

			has, err := provider.Has(key)
			require.NoError(t, err)
			assert.True(t, has)

			require.NoError(t, provider.Delete(key))
			has, err = provider.Has(key)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestProviderGetBatch(t *testing.T) {
	for name, provider := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, provider.Put([]byte("a"), []byte("1")))
			require.NoError(t, provider.Put([]byte("b"), []byte("2")))

			got, err := provider.GetBatch([][]byte{[]byte("a"), []byte("b"), []byte("missing")})
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), got["a"])
			assert.Equal(t, []byte("2"), got["b"])
			_, ok := got["missing"]
			assert.False(t, ok)
		})
	}
}

func TestProviderBatchIsAtomicUnit(t *testing.T) {
	for name, provider := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			batch := provider.Batch()
			batch.Put([]byte("x"), []byte("1"))
			batch.Put([]byte("y"), []byte("2"))

			// Nothing is visible before Write.
			has, err := provider.Has([]byte("x"))
			require.NoError(t, err)
			assert.False(t, has)

			require.NoError(t, batch.Write())
			batch.Close()

			value, err := provider.Get([]byte("y"))
			require.NoError(t, err)
			assert.Equal(t, []byte("2"), value)
		})
	}
}

func TestProviderIteratePrefix(t *testing.T) {
	for name, provider := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				key := fmt.Sprintf("account:%d", i)
				require.NoError(t, provider.Put([]byte(key), []byte{byte(i)}))
			}
			require.NoError(t, provider.Put([]byte("state_meta:total_supply"), []byte("17")))

			seen := 0
			err := provider.IteratePrefix([]byte("account:"), func(key, value []byte) bool {
				seen++
				return true
			})
			require.NoError(t, err)
			assert.Equal(t, 5, seen)

			// Early stop.
			seen = 0
			err = provider.IteratePrefix([]byte("account:"), func(key, value []byte) bool {
				seen++
				return seen < 2
			})
			require.NoError(t, err)
			assert.Equal(t, 2, seen)
		})
	}
}

func TestDBTxManagerDiscardsOnError(t *testing.T) {
	provider := NewMemoryProvider()
	tm := NewDBTxManager(provider)

	failure := fmt.Errorf("staged work failed")
	err := tm.WithBatch(func(batch DatabaseBatch) error {
		batch.Put([]byte("k"), []byte("v"))
		return failure
	})
	// The original error comes back unwrapped so callers can inspect it.
	assert.Equal(t, failure, err)

	has, err := provider.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has, "a failed batch must leave no writes behind")

	require.NoError(t, tm.WithBatch(func(batch DatabaseBatch) error {
		batch.Put([]byte("k"), []byte("v"))
		return nil
	}))
	has, err = provider.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}
