package store

import (
	"encoding/binary"
	"fmt"

	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/errors"
)

// TokenStore persists current token ownership and approvals. Token id equals
// the chunk index the token was minted for.
type TokenStore interface {
	OwnerOf(id uint32) (string, error)
	ApprovedFor(id uint32) (string, error)
	SetOwnerInBatch(batch db.DatabaseBatch, id uint32, owner string)
	SetApprovalInBatch(batch db.DatabaseBatch, id uint32, delegate string)
	ClearApprovalInBatch(batch db.DatabaseBatch, id uint32)
}

type GenericTokenStore struct {
	provider db.DatabaseProvider
}

func NewGenericTokenStore(provider db.DatabaseProvider) *GenericTokenStore {
	return &GenericTokenStore{provider: provider}
}

// OwnerOf returns the current owner of token id, not_yet_claimed if the token
// has not been minted
func (s *GenericTokenStore) OwnerOf(id uint32) (string, error) {
	value, err := s.provider.Get(tokenKey(PrefixTokenOwner, id))
	if err != nil {
		return "", fmt.Errorf("failed to get owner of token %d: %w", id, err)
	}
	if len(value) == 0 {
		return "", errors.NewError(errors.ErrCodeNotYetClaimed, errors.ErrMsgNotYetClaimed)
	}
	return string(value), nil
}

// ApprovedFor returns the approved delegate for token id, empty if none
func (s *GenericTokenStore) ApprovedFor(id uint32) (string, error) {
	value, err := s.provider.Get(tokenKey(PrefixTokenApproval, id))
	if err != nil {
		return "", fmt.Errorf("failed to get approval of token %d: %w", id, err)
	}
	return string(value), nil
}

func (s *GenericTokenStore) SetOwnerInBatch(batch db.DatabaseBatch, id uint32, owner string) {
	batch.Put(tokenKey(PrefixTokenOwner, id), []byte(owner))
}

func (s *GenericTokenStore) SetApprovalInBatch(batch db.DatabaseBatch, id uint32, delegate string) {
	batch.Put(tokenKey(PrefixTokenApproval, id), []byte(delegate))
}

func (s *GenericTokenStore) ClearApprovalInBatch(batch db.DatabaseBatch, id uint32) {
	batch.Delete(tokenKey(PrefixTokenApproval, id))
}

func tokenKey(prefix string, id uint32) []byte {
	key := make([]byte, len(prefix)+4)
	copy(key, prefix)
	binary.BigEndian.PutUint32(key[len(prefix):], id)
	return key
}
