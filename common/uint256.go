package common

import (
	"github.com/holiman/uint256"
)

// Uint256ToString renders an amount as its decimal string form, "0" for nil.
func Uint256ToString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// Uint256FromString parses a decimal amount string, returning zero on any
// malformed input rather than an error. Stored balances are written by this
// process only, so a parse failure means a fresh or corrupted key.
func Uint256FromString(s string) *uint256.Int {
	if s == "" {
		return uint256.NewInt(0)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.NewInt(0)
	}
	return v
}
