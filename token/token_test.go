package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/store"
)

func newTestRegistry(t *testing.T) (*Registry, *db.MemoryProvider) {
	t.Helper()
	provider := db.NewMemoryProvider()
	return NewRegistry(store.NewGenericTokenStore(provider), provider, nil), provider
}

func mintToken(t *testing.T, r *Registry, provider *db.MemoryProvider, id uint32, owner string) {
	t.Helper()
	batch := provider.Batch()
	r.MintInBatch(batch, id, owner)
	require.NoError(t, batch.Write())
	batch.Close()
}

func TestOwnerOfUnmintedToken(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.OwnerOf(0)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotYetClaimed, errors.CodeOf(err))
}

func TestTransferByOwner(t *testing.T) {
	r, provider := newTestRegistry(t)
	mintToken(t, r, provider, 5, "alice")

	require.NoError(t, r.Transfer("alice", "alice", "bob", 5))

	owner, err := r.OwnerOf(5)
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)
}

func TestTransferByApprovedDelegate(t *testing.T) {
	r, provider := newTestRegistry(t)
	mintToken(t, r, provider, 5, "alice")

	require.NoError(t, r.Approve("alice", 5, "carol"))
	require.NoError(t, r.Transfer("carol", "alice", "bob", 5))

	owner, err := r.OwnerOf(5)
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)

	// the approval is consumed by the transfer
	err = r.Transfer("carol", "bob", "carol", 5)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotAuthorized, errors.CodeOf(err))
}

func TestTransferUnauthorized(t *testing.T) {
	r, provider := newTestRegistry(t)
	mintToken(t, r, provider, 5, "alice")

	err := r.Transfer("mallory", "alice", "mallory", 5)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotAuthorized, errors.CodeOf(err))

	// from must match the current owner
	err = r.Transfer("alice", "bob", "carol", 5)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotAuthorized, errors.CodeOf(err))

	owner, err := r.OwnerOf(5)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestApproveRequiresOwner(t *testing.T) {
	r, provider := newTestRegistry(t)
	mintToken(t, r, provider, 5, "alice")

	err := r.Approve("bob", 5, "bob")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotAuthorized, errors.CodeOf(err))
}
