package ledger

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/mosaicmint/mosaic/assembler"
	"github.com/mosaicmint/mosaic/claim"
	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/events"
	"github.com/mosaicmint/mosaic/fee"
	"github.com/mosaicmint/mosaic/gasmeter"
	"github.com/mosaicmint/mosaic/interfaces"
	"github.com/mosaicmint/mosaic/logx"
	"github.com/mosaicmint/mosaic/monitoring"
	"github.com/mosaicmint/mosaic/registry"
	"github.com/mosaicmint/mosaic/store"
	"github.com/mosaicmint/mosaic/token"
	"github.com/mosaicmint/mosaic/types"
)

// Ledger is the claim/settlement state machine. It owns the claim cursor,
// the participant table, the chunk store and the accumulated balance; all of
// them are mutated only inside Claim and Withdraw, under one lock, and every
// durable write of a claim goes through a single database batch. A failure at
// any check point leaves no partial state behind.
type Ledger struct {
	mu          sync.RWMutex
	registry    *registry.ChunkRegistry
	chunks      store.ChunkStore
	state       store.MintStateStore
	tokens      *token.Registry
	dbProvider  db.DatabaseProvider
	eventRouter *events.EventRouter
	owner       string
	tariff      gasmeter.Tariff
	newMeter    func() interfaces.CostMeter

	// cached from the state store, authoritative between restarts
	cursor  uint32
	balance *uint256.Int
}

func NewLedger(reg *registry.ChunkRegistry, chunks store.ChunkStore, state store.MintStateStore,
	tokens *token.Registry, dbProvider db.DatabaseProvider, eventRouter *events.EventRouter,
	owner string, tariff gasmeter.Tariff) (*Ledger, error) {

	if owner == "" {
		return nil, errors.NewError(errors.ErrCodeInvalidConfiguration,
			errors.ErrMsgInvalidConfiguration+": owner address is empty")
	}

	cursor, err := state.Cursor()
	if err != nil {
		return nil, fmt.Errorf("could not load claim cursor: %w", err)
	}
	if cursor > registry.ChunkCount {
		return nil, fmt.Errorf("persisted claim cursor %d exceeds chunk count", cursor)
	}
	balance, err := state.Balance()
	if err != nil {
		return nil, fmt.Errorf("could not load accumulated balance: %w", err)
	}

	l := &Ledger{
		registry:    reg,
		chunks:      chunks,
		state:       state,
		tokens:      tokens,
		dbProvider:  dbProvider,
		eventRouter: eventRouter,
		owner:       owner,
		tariff:      tariff,
		newMeter:    func() interfaces.CostMeter { return gasmeter.NewTallyMeter() },
		cursor:      cursor,
		balance:     balance,
	}

	monitoring.SetNextClaimIndex(cursor)
	monitoring.SetAccumulatedBalance(toFloat(balance))
	logx.Info("LEDGER", fmt.Sprintf("Ledger loaded: next index %d, balance %s", cursor, balance.Dec()))
	return l, nil
}

// SetMeterFactory replaces the execution-cost measurement capability. The
// host environment injects its own meter here; the default is a TallyMeter
// charged by the tariff.
func (l *Ledger) SetMeterFactory(factory func() interfaces.CostMeter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.newMeter = factory
}

// Claim settles one chunk claim. The claimed index is always the current
// cursor, never caller-chosen. On success the chunk record, participant flag,
// cursor, balance and token ownership commit in one batch, the receipt
// reports the fee and refund, and a ChunkClaimed event is published.
func (l *Ledger) Claim(req *claim.Request) (*types.ClaimReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	meter := l.newMeter()
	meter.Charge(l.tariff.StepUnits)

	claimer := req.Claimer

	participated, err := l.state.HasParticipated(claimer)
	if err != nil {
		return nil, fmt.Errorf("could not check participation of %s: %w", claimer, err)
	}
	if participated {
		return nil, l.reject(claimer, monitoring.ClaimAlreadyParticipated,
			errors.NewError(errors.ErrCodeAlreadyParticipated, errors.ErrMsgAlreadyParticipated))
	}

	if l.cursor >= registry.ChunkCount {
		return nil, l.reject(claimer, monitoring.ClaimMintingComplete,
			errors.NewError(errors.ErrCodeMintingComplete, errors.ErrMsgMintingComplete))
	}
	index := l.cursor

	if err := l.registry.VerifyPayload(index, req.Payload); err != nil {
		return nil, l.reject(claimer, monitoring.ClaimHashMismatch, err)
	}

	// Storage work is metered before the fee check so the measured spending
	// tracks the growing cumulative image instead of a static estimate.
	meter.Charge(uint64(len(req.Payload)) * l.tariff.UnitsPerByte)
	meter.Charge(uint64(index) * l.tariff.CumulativeUnits)

	requiredCost := fee.RequiredCost(index)
	requiredFee := fee.RequiredFee(index, meter.Consumed(), req.UnitPrice)
	refund, err := fee.Settle(req.Value, requiredFee)
	if err != nil {
		return nil, l.reject(claimer, monitoring.ClaimInsufficientPayment, err)
	}

	endOffset := uint64(len(req.Payload))
	if index > 0 {
		prev, err := l.chunks.Get(index - 1)
		if err != nil {
			return nil, fmt.Errorf("could not load predecessor chunk %d: %w", index-1, err)
		}
		endOffset += prev.EndOffset
	}
	record := &types.ChunkRecord{
		Index:     index,
		Payload:   req.Payload,
		Claimant:  claimer,
		EndOffset: endOffset,
		ClaimedAt: uint64(time.Now().Unix()),
	}

	newBalance := new(uint256.Int).Add(l.balance, requiredFee)

	batch := l.dbProvider.Batch()
	defer batch.Close()
	if err := l.chunks.PutInBatch(batch, record); err != nil {
		// the cursor discipline makes a double write impossible; if it
		// surfaces anyway the store is corrupted
		logx.Error("LEDGER", fmt.Sprintf("FATAL: chunk slot %d written twice: %v", index, err))
		return nil, err
	}
	l.state.MarkParticipatedInBatch(batch, claimer)
	l.state.SetCursorInBatch(batch, index+1)
	l.state.SetBalanceInBatch(batch, newBalance)
	l.tokens.MintInBatch(batch, index, claimer)
	if err := batch.Write(); err != nil {
		// nothing was committed, cached state stays untouched
		return nil, fmt.Errorf("failed to commit claim %d: %w", index, err)
	}

	l.cursor = index + 1
	l.balance = newBalance

	phase, err := assembler.Phase(index)
	if err != nil {
		return nil, err
	}

	monitoring.IncreaseClaimCount()
	monitoring.SetNextClaimIndex(l.cursor)
	monitoring.SetAccumulatedBalance(toFloat(newBalance))
	monitoring.ObserveClaimFee(toFloat(requiredFee))

	logx.Info("LEDGER", fmt.Sprintf("Claimed chunk %d by %s: cost %d units, fee %s, refund %s",
		index, claimer, requiredCost, requiredFee.Dec(), refund.Dec()))
	if l.eventRouter != nil {
		l.eventRouter.PublishMintEvent(events.NewChunkClaimed(claimer, index, requiredCost, phase))
	}

	return &types.ClaimReceipt{
		Index:        index,
		Claimer:      claimer,
		RequiredCost: requiredCost,
		Fee:          requiredFee,
		Refund:       refund,
		Phase:        phase,
	}, nil
}

// Withdraw sweeps the entire accumulated balance to the configured owner
// identity. Outside the claim path; claim invariants are untouched.
func (l *Ledger) Withdraw(caller string) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return nil, errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgNotAuthorized)
	}

	amount := new(uint256.Int).Set(l.balance)
	zero := uint256.NewInt(0)

	batch := l.dbProvider.Batch()
	defer batch.Close()
	l.state.SetBalanceInBatch(batch, zero)
	if err := batch.Write(); err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal: %w", err)
	}
	l.balance = zero

	monitoring.IncreaseWithdrawCount()
	monitoring.SetAccumulatedBalance(0)
	logx.Info("LEDGER", fmt.Sprintf("Withdrawn %s to owner %s", amount.Dec(), caller))
	if l.eventRouter != nil {
		l.eventRouter.PublishMintEvent(events.NewFundsWithdrawn(caller, amount))
	}

	return amount, nil
}

// NextIndex returns the next chunk index to be claimed, ChunkCount once
// minting is over
func (l *Ledger) NextIndex() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cursor
}

// HasClaimed reports whether addr has claimed a chunk
func (l *Ledger) HasClaimed(addr string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.HasParticipated(addr)
}

// Balance returns the accumulated balance awaiting withdrawal
func (l *Ledger) Balance() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(uint256.Int).Set(l.balance)
}

// Owner returns the privileged withdrawer address
func (l *Ledger) Owner() string {
	return l.owner
}

func (l *Ledger) reject(claimer string, reason monitoring.ClaimRejectedReason, err error) error {
	monitoring.RecordRejectedClaim(reason)
	logx.Warn("LEDGER", fmt.Sprintf("Claim rejected for %s: %v", claimer, err))
	if l.eventRouter != nil {
		l.eventRouter.PublishMintEvent(events.NewClaimRejected(claimer, err.Error()))
	}
	return err
}

func toFloat(v *uint256.Int) float64 {
	f, err := strconv.ParseFloat(v.Dec(), 64)
	if err != nil {
		return 0
	}
	return f
}
