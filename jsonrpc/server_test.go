package jsonrpc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicmint/mosaic/assembler"
	"github.com/mosaicmint/mosaic/client"
	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/gasmeter"
	"github.com/mosaicmint/mosaic/ledger"
	"github.com/mosaicmint/mosaic/registry"
	"github.com/mosaicmint/mosaic/store"
	"github.com/mosaicmint/mosaic/token"
)

type rpcFixture struct {
	client    *client.MintClient
	ownerAddr string
	ownerKey  []byte
	payloads  [][]byte
}

func newRPCFixture(t *testing.T) *rpcFixture {
	t.Helper()

	ownerAddr, ownerKey, err := client.NewKeypair()
	require.NoError(t, err)

	payloads := make([][]byte, registry.ChunkCount)
	digests := make([][registry.DigestSize]byte, registry.ChunkCount)
	for i := range payloads {
		payloads[i] = []byte(fmt.Sprintf("chunk-%02d", i))
		digests[i] = sha256.Sum256(payloads[i])
	}

	reg, err := registry.NewChunkRegistry([]byte("<h>"), []byte("</h>"), digests)
	require.NoError(t, err)

	provider := db.NewMemoryProvider()
	chunks, err := store.NewGenericChunkStore(provider)
	require.NoError(t, err)
	state := store.NewGenericMintStateStore(provider)
	tokens := token.NewRegistry(store.NewGenericTokenStore(provider), provider, nil)

	l, err := ledger.NewLedger(reg, chunks, state, tokens, provider, nil, ownerAddr, gasmeter.DefaultTariff())
	require.NoError(t, err)

	asm := assembler.NewArtifactAssembler(reg, chunks, l)

	srv := NewServer(":0", l, tokens, asm, reg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := client.NewClient(client.Config{Endpoint: ts.URL})
	t.Cleanup(func() { c.Close() })

	return &rpcFixture{client: c, ownerAddr: ownerAddr, ownerKey: ownerKey, payloads: payloads}
}

func (f *rpcFixture) claimNext(t *testing.T, index uint32) (string, *client.ClaimResult) {
	t.Helper()

	addr, priv, err := client.NewKeypair()
	require.NoError(t, err)

	submission, err := client.SignClaim(addr, f.payloads[index],
		uint256.NewInt(1_000_000_000_000), uint256.NewInt(1), 1700000000, priv)
	require.NoError(t, err)

	result, err := f.client.Claim(context.Background(), submission)
	require.NoError(t, err)
	return addr, result
}

func TestRPCClaimAndQueries(t *testing.T) {
	f := newRPCFixture(t)
	ctx := context.Background()

	health, err := f.client.CheckHealth(ctx)
	require.NoError(t, err)
	assert.True(t, health.Ok)
	assert.Equal(t, uint32(0), health.NextIndex)

	addr, result := f.claimNext(t, 0)
	assert.Equal(t, uint32(0), result.Index)
	assert.Equal(t, uint64(3000000), result.RequiredCost)
	assert.Equal(t, "Black & White", result.Phase)

	claimed, err := f.client.HasClaimed(ctx, addr)
	require.NoError(t, err)
	assert.True(t, claimed)

	next, err := f.client.NextIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), next.NextIndex)
	assert.False(t, next.Complete)

	balance, err := f.client.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Fee, balance)

	hash, err := f.client.ExpectedHash(ctx, 1)
	require.NoError(t, err)
	digest := sha256.Sum256(f.payloads[1])
	assert.Equal(t, hex.EncodeToString(digest[:]), hash.Hash)

	phase, err := f.client.Phase(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, "Resolution", phase.Phase)

	owner, err := f.client.OwnerOf(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, addr, owner)
}

func TestRPCClaimRejectsBadSignature(t *testing.T) {
	f := newRPCFixture(t)

	addr, _, err := client.NewKeypair()
	require.NoError(t, err)
	_, otherPriv, err := client.NewKeypair()
	require.NoError(t, err)

	// signed by a key that does not match the claimer address
	submission, err := client.SignClaim(addr, f.payloads[0],
		uint256.NewInt(1_000_000_000_000), uint256.NewInt(1), 1700000000, otherPriv)
	require.NoError(t, err)

	_, err = f.client.Claim(context.Background(), submission)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}

func TestRPCAssemble(t *testing.T) {
	f := newRPCFixture(t)

	f.claimNext(t, 0)
	f.claimNext(t, 1)

	data, result, err := f.client.Assemble(context.Background(), 1)
	require.NoError(t, err)

	expected := append([]byte("<h>"), f.payloads[0]...)
	expected = append(expected, f.payloads[1]...)
	expected = append(expected, []byte("</h>")...)
	assert.Equal(t, expected, data)
	assert.Equal(t, "Black & White", result.Phase)

	_, _, err = f.client.Assemble(context.Background(), 5)
	require.Error(t, err)
}

func TestRPCTokenTransfer(t *testing.T) {
	f := newRPCFixture(t)
	ctx := context.Background()

	addr, _ := f.claimNext(t, 0)

	require.NoError(t, f.client.Transfer(ctx, addr, addr, "new-owner", 0))

	owner, err := f.client.OwnerOf(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "new-owner", owner)

	err = f.client.Transfer(ctx, "mallory", "new-owner", "mallory", 0)
	require.Error(t, err)
}

func TestRPCWithdraw(t *testing.T) {
	f := newRPCFixture(t)
	ctx := context.Background()

	_, result := f.claimNext(t, 0)

	submission, err := client.SignWithdraw(f.ownerAddr, 1700000000, f.ownerKey)
	require.NoError(t, err)

	withdrawn, err := f.client.Withdraw(ctx, submission)
	require.NoError(t, err)
	assert.Equal(t, result.Fee, withdrawn.Amount)

	balance, err := f.client.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0", balance)

	// an unsigned or foreign-signed withdraw never reaches the ledger
	_, err = f.client.Withdraw(ctx, &client.WithdrawSubmission{Owner: f.ownerAddr, Timestamp: 1})
	require.Error(t, err)
}
