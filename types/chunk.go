package types

import (
	"github.com/holiman/uint256"
)

// ChunkRecord is the claim record for a single chunk slot. It is written
// exactly once, at claim time, and never mutated afterward. Claimant is the
// original claimer; current token ownership may diverge through transfers.
type ChunkRecord struct {
	Index     uint32 `json:"index"`
	Payload   []byte `json:"payload"`
	Claimant  string `json:"claimant"`
	EndOffset uint64 `json:"end_offset"` // cumulative payload bytes through this index
	ClaimedAt uint64 `json:"claimed_at"`
}

// ClaimReceipt summarizes a settled claim back to the caller.
type ClaimReceipt struct {
	Index        uint32       `json:"index"`
	Claimer      string       `json:"claimer"`
	RequiredCost uint64       `json:"required_cost"`
	Fee          *uint256.Int `json:"fee"`
	Refund       *uint256.Int `json:"refund"`
	Phase        string       `json:"phase"`
}

// Artifact is the reconstructed cumulative image up to some claimed index.
type Artifact struct {
	Data   []byte `json:"data"`
	SizeKB uint64 `json:"size_kb"`
	Phase  string `json:"phase"`
}
