package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/jsonx"
	"github.com/mosaicmint/mosaic/logx"
	"github.com/mosaicmint/mosaic/types"
)

// ChunkStore is the append-only, index-addressed store of claimed chunk
// records. A slot is written exactly once; a second write for the same index
// is a broken internal invariant, not a normal failure.
type ChunkStore interface {
	Get(index uint32) (*types.ChunkRecord, error)
	Has(index uint32) (bool, error)
	PutInBatch(batch db.DatabaseBatch, record *types.ChunkRecord) error
	MustClose()
}

type GenericChunkStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericChunkStore(dbProvider db.DatabaseProvider) (*GenericChunkStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericChunkStore{
		dbProvider: dbProvider,
	}, nil
}

// Get returns the claim record for index, not_yet_claimed if the slot is empty
func (cs *GenericChunkStore) Get(index uint32) (*types.ChunkRecord, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	data, err := cs.dbProvider.Get(chunkKey(index))
	if err != nil {
		return nil, fmt.Errorf("could not get chunk %d from db: %w", index, err)
	}
	if data == nil {
		return nil, errors.NewError(errors.ErrCodeNotYetClaimed, errors.ErrMsgNotYetClaimed)
	}

	var record types.ChunkRecord
	if err := jsonx.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chunk %d: %w", index, err)
	}
	return &record, nil
}

func (cs *GenericChunkStore) Has(index uint32) (bool, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return cs.dbProvider.Has(chunkKey(index))
}

// PutInBatch stages the claim record into batch. The occupancy check makes a
// double write surface as already_claimed, which callers treat as fatal.
func (cs *GenericChunkStore) PutInBatch(batch db.DatabaseBatch, record *types.ChunkRecord) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	occupied, err := cs.dbProvider.Has(chunkKey(record.Index))
	if err != nil {
		return fmt.Errorf("could not check occupancy of chunk %d: %w", record.Index, err)
	}
	if occupied {
		return errors.NewError(errors.ErrCodeAlreadyClaimed, errors.ErrMsgAlreadyClaimed)
	}

	data, err := jsonx.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk %d: %w", record.Index, err)
	}
	batch.Put(chunkKey(record.Index), data)
	return nil
}

func (cs *GenericChunkStore) MustClose() {
	err := cs.dbProvider.Close()
	if err != nil {
		logx.Error("CHUNK_STORE", "Failed to close db provider:", err.Error())
	}
}

func chunkKey(index uint32) []byte {
	key := make([]byte, len(PrefixChunk)+4)
	copy(key, PrefixChunk)
	binary.BigEndian.PutUint32(key[len(PrefixChunk):], index)
	return key
}
