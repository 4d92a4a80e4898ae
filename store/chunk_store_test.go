package store

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/types"
)

func TestChunkStorePutAndGet(t *testing.T) {
	provider := db.NewMemoryProvider()
	cs, err := NewGenericChunkStore(provider)
	require.NoError(t, err)

	record := &types.ChunkRecord{
		Index:     7,
		Payload:   []byte("payload-7"),
		Claimant:  "alice",
		EndOffset: 9,
		ClaimedAt: 1700000000,
	}

	batch := provider.Batch()
	require.NoError(t, cs.PutInBatch(batch, record))
	require.NoError(t, batch.Write())
	batch.Close()

	got, err := cs.Get(7)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	occupied, err := cs.Has(7)
	require.NoError(t, err)
	assert.True(t, occupied)
}

func TestChunkStoreGetEmptySlot(t *testing.T) {
	cs, err := NewGenericChunkStore(db.NewMemoryProvider())
	require.NoError(t, err)

	_, err = cs.Get(0)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotYetClaimed, errors.CodeOf(err))
}

func TestChunkStoreRejectsDoubleWrite(t *testing.T) {
	provider := db.NewMemoryProvider()
	cs, err := NewGenericChunkStore(provider)
	require.NoError(t, err)

	record := &types.ChunkRecord{Index: 0, Payload: []byte("p"), Claimant: "a", EndOffset: 1}

	batch := provider.Batch()
	require.NoError(t, cs.PutInBatch(batch, record))
	require.NoError(t, batch.Write())
	batch.Close()

	// a second write of the same slot is a broken internal invariant
	batch = provider.Batch()
	err = cs.PutInBatch(batch, record)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAlreadyClaimed, errors.CodeOf(err))
	batch.Close()
}

func TestMintStateStoreRoundTrip(t *testing.T) {
	provider := db.NewMemoryProvider()
	s := NewGenericMintStateStore(provider)

	// fresh database defaults
	cursor, err := s.Cursor()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cursor)
	balance, err := s.Balance()
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	claimed, err := s.HasParticipated("alice")
	require.NoError(t, err)
	assert.False(t, claimed)

	batch := provider.Batch()
	s.SetCursorInBatch(batch, 42)
	s.SetBalanceInBatch(batch, uint256.NewInt(123456789))
	s.MarkParticipatedInBatch(batch, "alice")
	require.NoError(t, batch.Write())
	batch.Close()

	cursor, err = s.Cursor()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), cursor)

	balance, err = s.Balance()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(123456789), balance)

	claimed, err = s.HasParticipated("alice")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestTokenStoreRoundTrip(t *testing.T) {
	provider := db.NewMemoryProvider()
	s := NewGenericTokenStore(provider)

	_, err := s.OwnerOf(3)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotYetClaimed, errors.CodeOf(err))

	batch := provider.Batch()
	s.SetOwnerInBatch(batch, 3, "alice")
	s.SetApprovalInBatch(batch, 3, "bob")
	require.NoError(t, batch.Write())
	batch.Close()

	owner, err := s.OwnerOf(3)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	approved, err := s.ApprovedFor(3)
	require.NoError(t, err)
	assert.Equal(t, "bob", approved)

	batch = provider.Batch()
	s.ClearApprovalInBatch(batch, 3)
	require.NoError(t, batch.Write())
	batch.Close()

	approved, err = s.ApprovedFor(3)
	require.NoError(t, err)
	assert.Equal(t, "", approved)
}
