package store

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mosaicmint/mosaic/common"
	"github.com/mosaicmint/mosaic/db"
)

// MintStateStore persists the small mutable mint state: the claim cursor,
// the accumulated balance and the per-participant claimed flags. Writes go
// through the claim batch so they commit together with the chunk record.
//
// Keys:
// - StateKeyCursor  => 4-byte big-endian next claim index
// - StateKeyBalance => decimal string accumulated balance
// - PrefixParticipant + <address> => single 0x01 byte
type MintStateStore interface {
	Cursor() (uint32, error)
	Balance() (*uint256.Int, error)
	HasParticipated(addr string) (bool, error)
	SetCursorInBatch(batch db.DatabaseBatch, cursor uint32)
	SetBalanceInBatch(batch db.DatabaseBatch, balance *uint256.Int)
	MarkParticipatedInBatch(batch db.DatabaseBatch, addr string)
}

type GenericMintStateStore struct {
	provider db.DatabaseProvider
}

func NewGenericMintStateStore(provider db.DatabaseProvider) *GenericMintStateStore {
	return &GenericMintStateStore{provider: provider}
}

// Cursor returns the persisted next claim index, 0 for a fresh database
func (s *GenericMintStateStore) Cursor() (uint32, error) {
	value, err := s.provider.Get([]byte(StateKeyCursor))
	if err != nil {
		return 0, fmt.Errorf("failed to get claim cursor: %w", err)
	}
	if len(value) == 0 {
		return 0, nil
	}
	if len(value) != 4 {
		return 0, fmt.Errorf("invalid claim cursor length: %d", len(value))
	}
	return binary.BigEndian.Uint32(value), nil
}

// Balance returns the persisted accumulated balance, zero for a fresh database
func (s *GenericMintStateStore) Balance() (*uint256.Int, error) {
	value, err := s.provider.Get([]byte(StateKeyBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to get accumulated balance: %w", err)
	}
	return common.Uint256FromString(string(value)), nil
}

func (s *GenericMintStateStore) HasParticipated(addr string) (bool, error) {
	return s.provider.Has(participantKey(addr))
}

func (s *GenericMintStateStore) SetCursorInBatch(batch db.DatabaseBatch, cursor uint32) {
	value := make([]byte, 4)
	binary.BigEndian.PutUint32(value, cursor)
	batch.Put([]byte(StateKeyCursor), value)
}

func (s *GenericMintStateStore) SetBalanceInBatch(batch db.DatabaseBatch, balance *uint256.Int) {
	batch.Put([]byte(StateKeyBalance), []byte(common.Uint256ToString(balance)))
}

func (s *GenericMintStateStore) MarkParticipatedInBatch(batch db.DatabaseBatch, addr string) {
	batch.Put(participantKey(addr), []byte{0x01})
}

func participantKey(addr string) []byte {
	return []byte(PrefixParticipant + addr)
}
