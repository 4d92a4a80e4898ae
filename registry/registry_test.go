package registry

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicmint/mosaic/errors"
)

func testDigests(count int) [][DigestSize]byte {
	digests := make([][DigestSize]byte, count)
	for i := range digests {
		digests[i] = sha256.Sum256([]byte(fmt.Sprintf("chunk-%d", i)))
	}
	return digests
}

func TestNewChunkRegistryRequiresExactCount(t *testing.T) {
	for _, count := range []int{0, 1, 99, 101} {
		_, err := NewChunkRegistry([]byte("hdr"), []byte("ftr"), testDigests(count))
		require.Error(t, err, "count %d", count)
		assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.CodeOf(err))
	}

	reg, err := NewChunkRegistry([]byte("hdr"), []byte("ftr"), testDigests(ChunkCount))
	require.NoError(t, err)
	assert.Equal(t, []byte("hdr"), reg.Header())
	assert.Equal(t, []byte("ftr"), reg.Footer())
}

func TestExpectedHash(t *testing.T) {
	digests := testDigests(ChunkCount)
	reg, err := NewChunkRegistry(nil, nil, digests)
	require.NoError(t, err)

	for _, i := range []uint32{0, 42, 99} {
		digest, err := reg.ExpectedHash(i)
		require.NoError(t, err)
		assert.Equal(t, digests[i], digest)
	}

	_, err = reg.ExpectedHash(ChunkCount)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexOutOfRange, errors.CodeOf(err))
}

func TestVerifyPayload(t *testing.T) {
	reg, err := NewChunkRegistry(nil, nil, testDigests(ChunkCount))
	require.NoError(t, err)

	assert.NoError(t, reg.VerifyPayload(7, []byte("chunk-7")))

	err = reg.VerifyPayload(7, []byte("chunk-8"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeHashMismatch, errors.CodeOf(err))

	err = reg.VerifyPayload(ChunkCount, []byte("chunk-0"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexOutOfRange, errors.CodeOf(err))
}
