package interfaces

import (
	"github.com/holiman/uint256"
	"github.com/mosaicmint/mosaic/claim"
	"github.com/mosaicmint/mosaic/types"
)

// Minter is the ledger surface the RPC layer depends on.
type Minter interface {
	Claim(req *claim.Request) (*types.ClaimReceipt, error)
	Withdraw(caller string) (*uint256.Int, error)
	NextIndex() uint32
	HasClaimed(addr string) (bool, error)
	Balance() *uint256.Int
}

// TokenLedger is the token ownership surface the RPC layer depends on.
type TokenLedger interface {
	OwnerOf(id uint32) (string, error)
	Approve(caller string, id uint32, delegate string) error
	Transfer(caller, from, to string, id uint32) error
}

// Assembler is the artifact reconstruction surface the RPC layer depends on.
type Assembler interface {
	Assemble(upTo uint32) (*types.Artifact, error)
}
