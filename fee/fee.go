package fee

import (
	"github.com/holiman/uint256"
	"github.com/mosaicmint/mosaic/errors"
)

// Fee schedule constants, in execution-cost units.
const (
	// CostSlope is the per-index increment of the required total cost
	CostSlope = 70707
	// CostBase is the required total cost of claim index 0
	CostBase = 3000000
	// EstimationBias corrects for the cost of the fee check and settlement
	// steps themselves, which the meter cannot have seen yet
	EstimationBias = 260000
)

// RequiredCost returns the required total execution cost for claim index i.
// Strictly increasing: RequiredCost(j) - RequiredCost(i) == CostSlope*(j-i).
func RequiredCost(index uint32) uint64 {
	return CostSlope*uint64(index) + CostBase
}

// RequiredFee converts the cost shortfall into value units at the caller's
// declared unit price. When measured spending already covers the required
// cost the fee floors at zero rather than underflowing.
func RequiredFee(index uint32, spent uint64, unitPrice *uint256.Int) *uint256.Int {
	required := RequiredCost(index)
	if spent+EstimationBias >= required {
		return uint256.NewInt(0)
	}
	units := required - spent - EstimationBias

	fee := new(uint256.Int).SetUint64(units)
	return fee.Mul(fee, unitPrice)
}

// Settle checks the attached value against the required fee and returns the
// overpayment to refund. insufficient_payment when value < fee.
func Settle(value, requiredFee *uint256.Int) (*uint256.Int, error) {
	if value.Lt(requiredFee) {
		return nil, errors.NewError(errors.ErrCodeInsufficientPayment, errors.ErrMsgInsufficientPayment)
	}
	return new(uint256.Int).Sub(value, requiredFee), nil
}
