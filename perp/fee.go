package perp

import (
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
)

// PositionFee returns the margin fee on a notional: size - size*(10000-bps)/10000.
// The subtraction form rounds the fee up by at most one unit, as on chain.
func (c *Calculator) PositionFee(size *big.Int) *big.Int {
	if size == nil {
		return nil
	}
	afterFee := fixed.MulDiv(size,
		big.NewInt(fixed.BasisPointsDivisor-c.params.MarginFeeBasisPoints), fixed.BasisPoints())
	return fixed.Sub(size, afterFee)
}

// FundingFee returns size*(cumulativeRate-entryRate)/1e6. It is unavailable
// unless size and both rates are present.
func FundingFee(size, entryRate, cumulativeRate *big.Int) *big.Int {
	if size == nil || entryRate == nil || cumulativeRate == nil {
		return nil
	}
	return fixed.MulDiv(size, fixed.Sub(cumulativeRate, entryRate), fixed.FundingPrecision())
}
