package perp

import (
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
)

// PositionChange is a position snapshot together with an optional pending change
// (open, close, deposit, withdraw). Nil fields are absent.
type PositionChange struct {
	Size         *big.Int
	SizeDelta    *big.Int
	IncreaseSize bool

	Collateral         *big.Int
	CollateralDelta    *big.Int
	IncreaseCollateral bool

	AveragePrice *big.Int
	IsLong       bool

	EntryFundingRate      *big.Int
	CumulativeFundingRate *big.Int

	// Unrealised PnL. It only counts toward leverage when IncludeDelta is set.
	HasProfit    bool
	Delta        *big.Int
	IncludeDelta bool
}

// applyDelta returns base moved by delta. A decrease that meets or exceeds base
// is rejected.
func applyDelta(base, delta *big.Int, increase bool) (*big.Int, bool) {
	if delta == nil {
		return fixed.Clone(base), true
	}
	if increase {
		return fixed.Add(base, delta), true
	}
	if delta.Cmp(base) >= 0 {
		return nil, false
	}
	return fixed.Sub(base, delta), true
}

// next applies the pending size and collateral deltas.
func (p *PositionChange) next() (nextSize, remainingCollateral *big.Int, ok bool) {
	if fixed.IsZero(p.Size) && fixed.IsZero(p.SizeDelta) {
		return nil, nil, false
	}
	if p.Collateral == nil && p.CollateralDelta == nil {
		return nil, nil, false
	}
	if nextSize, ok = applyDelta(fixed.OrZero(p.Size), p.SizeDelta, p.IncreaseSize); !ok {
		return nil, nil, false
	}
	if remainingCollateral, ok = applyDelta(fixed.OrZero(p.Collateral), p.CollateralDelta, p.IncreaseCollateral); !ok {
		return nil, nil, false
	}
	return nextSize, remainingCollateral, true
}

func (p *PositionChange) fundingFee() *big.Int {
	return FundingFee(p.Size, p.EntryFundingRate, p.CumulativeFundingRate)
}
