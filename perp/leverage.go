package perp

import (
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
)

// Leverage returns nextSize*10000/remainingCollateral in basis points (10000 = 1x)
// after applying the pending change, the margin fee of a size delta and accrued
// funding. It is recomputed on every call since funding accrues continuously.
func (c *Calculator) Leverage(p PositionChange) *big.Int {
	nextSize, remaining, ok := p.next()
	if !ok {
		return nil
	}

	if p.IncludeDelta && p.Delta != nil {
		if p.HasProfit {
			remaining = fixed.Add(remaining, p.Delta)
		} else {
			if p.Delta.Cmp(remaining) > 0 {
				return nil
			}
			remaining = fixed.Sub(remaining, p.Delta)
		}
	}
	if remaining.Sign() == 0 {
		return nil
	}

	if p.SizeDelta != nil {
		remaining = fixed.Sub(remaining, c.PositionFee(p.SizeDelta))
	}
	if fundingFee := p.fundingFee(); fundingFee != nil {
		remaining = fixed.Sub(remaining, fundingFee)
	}
	// fees ate the whole margin
	if remaining.Sign() <= 0 {
		return nil
	}
	return fixed.MulDiv(nextSize, fixed.BasisPoints(), remaining)
}

// IsOverLeveraged reports whether leverage exceeds the max leverage. Unavailable
// leverage is never over-leveraged.
func (c *Calculator) IsOverLeveraged(leverage *big.Int) bool {
	return leverage != nil && leverage.Cmp(big.NewInt(c.params.MaxLeverage)) > 0
}
