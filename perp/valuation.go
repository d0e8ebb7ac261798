package perp

import (
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
)

// Delta returns the unrealised PnL of size opened at averagePrice when marked at
// markPrice: |averagePrice-markPrice|*size/averagePrice. Longs profit above the
// average price, shorts below it.
func Delta(markPrice, size, averagePrice *big.Int, isLong bool) (hasProfit bool, delta *big.Int) {
	if markPrice == nil || size == nil || fixed.IsZero(averagePrice) {
		return false, nil
	}
	priceDelta := fixed.Abs(fixed.Sub(averagePrice, markPrice))
	delta = fixed.MulDiv(size, priceDelta, averagePrice)
	if isLong {
		hasProfit = markPrice.Cmp(averagePrice) > 0
	} else {
		hasProfit = averagePrice.Cmp(markPrice) > 0
	}
	return hasProfit, delta
}

// DeltaPercentage returns delta relative to collateral in basis points.
func DeltaPercentage(delta, collateral *big.Int) *big.Int {
	return fixed.MulDiv(delta, fixed.BasisPoints(), collateral)
}

// NextAveragePrice returns the entry price after increasing a position of size with
// unrealised PnL delta by sizeDelta at nextPrice.
func NextAveragePrice(size, sizeDelta *big.Int, hasProfit bool, delta, nextPrice *big.Int, isLong bool) *big.Int {
	if size == nil || sizeDelta == nil || delta == nil || nextPrice == nil {
		return nil
	}
	nextSize := fixed.Add(size, sizeDelta)
	var divisor *big.Int
	if isLong == hasProfit {
		divisor = fixed.Add(nextSize, delta)
	} else {
		divisor = fixed.Sub(nextSize, delta)
	}
	if divisor.Sign() <= 0 {
		return nil
	}
	return fixed.MulDiv(nextPrice, nextSize, divisor)
}

// Valuation is the derived view of a position. Nil fields are unavailable.
type Valuation struct {
	Position *Position

	Leverage        *big.Int
	LeverageWithPnL *big.Int
	// LiquidationPrice of the position as it stands, no pending change.
	LiquidationPrice *big.Int

	ClosingFee         *big.Int
	FundingFee         *big.Int
	CollateralAfterFee *big.Int

	HasProfit       bool
	PendingDelta    *big.Int
	DeltaPercentage *big.Int

	NetValue         *big.Int
	HasLowCollateral bool
}

// Valuate computes the valuation of pos. The pending PnL is taken from the mark
// price when present and from the reader's delta otherwise.
func (c *Calculator) Valuate(pos *Position) *Valuation {
	v := &Valuation{Position: pos}

	v.FundingFee = FundingFee(pos.Size, pos.EntryFundingRate, pos.CumulativeFundingRate)
	v.ClosingFee = c.PositionFee(pos.Size)
	v.CollateralAfterFee = fixed.Sub(pos.Collateral, fixed.OrZero(v.FundingFee))

	if pos.MarkPrice != nil {
		v.HasProfit, v.PendingDelta = Delta(pos.MarkPrice, pos.Size, pos.AveragePrice, pos.IsLong)
	} else {
		v.HasProfit, v.PendingDelta = pos.HasProfit, fixed.Clone(pos.Delta)
	}
	v.DeltaPercentage = DeltaPercentage(v.PendingDelta, pos.Collateral)

	if v.PendingDelta != nil {
		if v.HasProfit {
			v.NetValue = fixed.Add(pos.Collateral, v.PendingDelta)
		} else {
			v.NetValue = fixed.Sub(pos.Collateral, v.PendingDelta)
		}
		v.NetValue = fixed.Sub(v.NetValue, fixed.OrZero(v.FundingFee))
	}

	v.HasLowCollateral = c.hasLowCollateral(pos.Size, v.CollateralAfterFee)

	change := pos.Change()
	v.Leverage = c.Leverage(change)
	v.LiquidationPrice = c.LiquidationPrice(change)

	change.HasProfit, change.Delta, change.IncludeDelta = v.HasProfit, v.PendingDelta, true
	v.LeverageWithPnL = c.Leverage(change)
	return v
}

func (c *Calculator) hasLowCollateral(size, collateralAfterFee *big.Int) bool {
	if collateralAfterFee == nil {
		return false
	}
	if collateralAfterFee.Sign() <= 0 {
		return true
	}
	ratio := fixed.Div(fixed.OrZero(size), collateralAfterFee)
	return ratio.Cmp(big.NewInt(c.params.LowCollateralLeverage)) > 0
}

// ValuateAll valuates the active positions, keeping order.
func (c *Calculator) ValuateAll(positions []*Position) []*Valuation {
	active := ActivePositions(positions)
	valuations := make([]*Valuation, len(active))
	for i, p := range active {
		valuations[i] = c.Valuate(p)
	}
	return valuations
}
