package perp

import (
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
)

// LiquidationPriceFromDelta returns the price at which a loss equal to
// collateral-amount is reached: averagePrice ∓ (collateral-amount)*averagePrice/size.
// It is unavailable when amount exceeds collateral or size is absent or zero.
func LiquidationPriceFromDelta(amount, size, collateral, averagePrice *big.Int, isLong bool) *big.Int {
	if fixed.IsZero(size) || amount == nil || collateral == nil || averagePrice == nil {
		return nil
	}
	if amount.Cmp(collateral) > 0 {
		return nil
	}
	priceDelta := fixed.MulDiv(fixed.Sub(collateral, amount), averagePrice, size)
	if isLong {
		return fixed.Sub(averagePrice, priceDelta)
	}
	return fixed.Add(averagePrice, priceDelta)
}

// LiquidationBounds are the two candidate liquidation prices of a position.
type LiquidationBounds struct {
	// ForFees is where fees, the liquidation penalty and funding exhaust collateral.
	ForFees *big.Int
	// ForMaxLeverage is where the position crosses max leverage.
	ForMaxLeverage *big.Int
}

// LiquidationBounds applies the pending change and computes both candidate prices.
func (c *Calculator) LiquidationBounds(p PositionChange) LiquidationBounds {
	if p.AveragePrice == nil {
		return LiquidationBounds{}
	}
	nextSize, remaining, ok := p.next()
	if !ok {
		return LiquidationBounds{}
	}
	if p.SizeDelta != nil {
		remaining = fixed.Sub(remaining, c.PositionFee(p.SizeDelta))
	}

	feeAmount := fixed.Add(c.PositionFee(fixed.OrZero(p.Size)), c.params.LiquidationFee)
	if fundingFee := p.fundingFee(); fundingFee != nil {
		feeAmount = fixed.Add(feeAmount, fundingFee)
	}
	maxLeverageAmount := fixed.MulDiv(nextSize, fixed.BasisPoints(), big.NewInt(c.params.MaxLeverage))

	return LiquidationBounds{
		ForFees:        LiquidationPriceFromDelta(feeAmount, nextSize, remaining, p.AveragePrice, p.IsLong),
		ForMaxLeverage: LiquidationPriceFromDelta(maxLeverageAmount, nextSize, remaining, p.AveragePrice, p.IsLong),
	}
}

// Combine returns the bound hit first as price moves against the position: the
// higher one for longs, the lower one for shorts. A missing bound yields the other.
func (b LiquidationBounds) Combine(isLong bool) *big.Int {
	if isLong {
		return fixed.Max(b.ForFees, b.ForMaxLeverage)
	}
	return fixed.Min(b.ForFees, b.ForMaxLeverage)
}

// LiquidationPrice estimates the liquidation price after the pending change.
func (c *Calculator) LiquidationPrice(p PositionChange) *big.Int {
	return c.LiquidationBounds(p).Combine(p.IsLong)
}
