package token

import (
	"fmt"
	"sync"

	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/events"
	"github.com/mosaicmint/mosaic/logx"
	"github.com/mosaicmint/mosaic/store"
)

// Registry tracks current ownership of minted chunk tokens. Minting happens
// inside the claim batch; transfers follow standard semantics, requiring the
// current owner or an approved delegate.
type Registry struct {
	mu          sync.RWMutex
	tokens      store.TokenStore
	dbProvider  db.DatabaseProvider
	eventRouter *events.EventRouter
}

func NewRegistry(tokens store.TokenStore, dbProvider db.DatabaseProvider, eventRouter *events.EventRouter) *Registry {
	return &Registry{
		tokens:      tokens,
		dbProvider:  dbProvider,
		eventRouter: eventRouter,
	}
}

// MintInBatch stages ownership of token id for the claimant. Called by the
// claim operation only, inside the claim batch.
func (r *Registry) MintInBatch(batch db.DatabaseBatch, id uint32, owner string) {
	r.tokens.SetOwnerInBatch(batch, id, owner)
}

// OwnerOf returns the current owner of token id
func (r *Registry) OwnerOf(id uint32) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tokens.OwnerOf(id)
}

// Approve lets the current owner designate a delegate for token id
func (r *Registry) Approve(caller string, id uint32, delegate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, err := r.tokens.OwnerOf(id)
	if err != nil {
		return err
	}
	if caller != owner {
		return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgNotAuthorized)
	}

	batch := r.dbProvider.Batch()
	defer batch.Close()
	r.tokens.SetApprovalInBatch(batch, id, delegate)
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to persist approval for token %d: %w", id, err)
	}
	return nil
}

// Transfer moves token id from its current owner to another address. The
// caller must be the current owner or the approved delegate; any approval is
// consumed by the transfer.
func (r *Registry) Transfer(caller, from, to string, id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, err := r.tokens.OwnerOf(id)
	if err != nil {
		return err
	}
	if from != owner {
		return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgNotAuthorized)
	}
	approved, err := r.tokens.ApprovedFor(id)
	if err != nil {
		return err
	}
	if caller != owner && caller != approved {
		return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgNotAuthorized)
	}

	batch := r.dbProvider.Batch()
	defer batch.Close()
	r.tokens.SetOwnerInBatch(batch, id, to)
	r.tokens.ClearApprovalInBatch(batch, id)
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to persist transfer of token %d: %w", id, err)
	}

	logx.Info("TOKEN", fmt.Sprintf("Transferred token %d: %s -> %s", id, from, to))
	if r.eventRouter != nil {
		r.eventRouter.PublishMintEvent(events.NewTokenTransferred(from, to, id))
	}
	return nil
}
