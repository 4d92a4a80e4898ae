package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderPutGetDelete(t *testing.T) {
	p := NewMemoryProvider()

	value, err := p.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, p.Put([]byte("k"), []byte("v")))

	value, err = p.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	ok, err := p.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, p.Delete([]byte("k")))
	ok, err = p.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryProviderReturnsCopies(t *testing.T) {
	p := NewMemoryProvider()

	original := []byte("value")
	require.NoError(t, p.Put([]byte("k"), original))
	original[0] = 'X'

	value, err := p.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	// mutating the returned slice must not leak back into the store
	value[0] = 'Y'
	again, err := p.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func TestBatchWriteIsAllOrNothing(t *testing.T) {
	p := NewMemoryProvider()
	require.NoError(t, p.Put([]byte("stale"), []byte("old")))

	batch := p.Batch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	batch.Delete([]byte("stale"))

	// nothing is visible until Write
	ok, err := p.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, batch.Write())
	batch.Close()

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		value, err := p.Get([]byte(key))
		require.NoError(t, err)
		assert.Equal(t, []byte(want), value)
	}
	ok, err = p.Has([]byte("stale"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBatchReset(t *testing.T) {
	p := NewMemoryProvider()

	batch := p.Batch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Reset()
	batch.Put([]byte("b"), []byte("2"))
	require.NoError(t, batch.Write())
	batch.Close()

	ok, err := p.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, ok, "reset must discard buffered writes")

	ok, err = p.Has([]byte("b"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClosedProviderRejectsOperations(t *testing.T) {
	p := NewMemoryProvider()
	batch := p.Batch()
	batch.Put([]byte("a"), []byte("1"))

	require.NoError(t, p.Close())

	assert.Error(t, p.Put([]byte("k"), []byte("v")))
	_, err := p.Get([]byte("k"))
	assert.Error(t, err)
	assert.Error(t, batch.Write())
}
