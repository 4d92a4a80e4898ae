package events

import (
	"time"

	"github.com/holiman/uint256"
)

// EventType is an enum-like string type for mint events
type EventType string

const (
	EventChunkClaimed     EventType = "ChunkClaimed"
	EventClaimRejected    EventType = "ClaimRejected"
	EventFundsWithdrawn   EventType = "FundsWithdrawn"
	EventTokenTransferred EventType = "TokenTransferred"
)

// MintEvent represents any event that occurs in the mint
type MintEvent interface {
	Type() EventType
	Timestamp() time.Time
	Subject() string
}

// ChunkClaimed event when a claim settles. Carries the claimer, the required
// total cost and the phase label of the claimed index.
type ChunkClaimed struct {
	claimer      string
	index        uint32
	requiredCost uint64
	phase        string
	timestamp    time.Time
}

func NewChunkClaimed(claimer string, index uint32, requiredCost uint64, phase string) *ChunkClaimed {
	return &ChunkClaimed{
		claimer:      claimer,
		index:        index,
		requiredCost: requiredCost,
		phase:        phase,
		timestamp:    time.Now(),
	}
}

func (e *ChunkClaimed) Type() EventType {
	return EventChunkClaimed
}

func (e *ChunkClaimed) Timestamp() time.Time {
	return e.timestamp
}

func (e *ChunkClaimed) Subject() string {
	return e.claimer
}

func (e *ChunkClaimed) Index() uint32 {
	return e.index
}

func (e *ChunkClaimed) RequiredCost() uint64 {
	return e.requiredCost
}

func (e *ChunkClaimed) Phase() string {
	return e.phase
}

// ClaimRejected event when a claim fails any check
type ClaimRejected struct {
	claimer      string
	errorMessage string
	timestamp    time.Time
}

func NewClaimRejected(claimer string, errorMessage string) *ClaimRejected {
	return &ClaimRejected{
		claimer:      claimer,
		errorMessage: errorMessage,
		timestamp:    time.Now(),
	}
}

func (e *ClaimRejected) Type() EventType {
	return EventClaimRejected
}

func (e *ClaimRejected) Timestamp() time.Time {
	return e.timestamp
}

func (e *ClaimRejected) Subject() string {
	return e.claimer
}

func (e *ClaimRejected) ErrorMessage() string {
	return e.errorMessage
}

// FundsWithdrawn event when the owner sweeps the accumulated balance
type FundsWithdrawn struct {
	owner     string
	amount    *uint256.Int
	timestamp time.Time
}

func NewFundsWithdrawn(owner string, amount *uint256.Int) *FundsWithdrawn {
	return &FundsWithdrawn{
		owner:     owner,
		amount:    amount,
		timestamp: time.Now(),
	}
}

func (e *FundsWithdrawn) Type() EventType {
	return EventFundsWithdrawn
}

func (e *FundsWithdrawn) Timestamp() time.Time {
	return e.timestamp
}

func (e *FundsWithdrawn) Subject() string {
	return e.owner
}

func (e *FundsWithdrawn) Amount() *uint256.Int {
	return e.amount
}

// TokenTransferred event when token ownership changes hands
type TokenTransferred struct {
	from      string
	to        string
	tokenID   uint32
	timestamp time.Time
}

func NewTokenTransferred(from, to string, tokenID uint32) *TokenTransferred {
	return &TokenTransferred{
		from:      from,
		to:        to,
		tokenID:   tokenID,
		timestamp: time.Now(),
	}
}

func (e *TokenTransferred) Type() EventType {
	return EventTokenTransferred
}

func (e *TokenTransferred) Timestamp() time.Time {
	return e.timestamp
}

func (e *TokenTransferred) Subject() string {
	return e.from
}

func (e *TokenTransferred) To() string {
	return e.to
}

func (e *TokenTransferred) TokenID() uint32 {
	return e.tokenID
}
