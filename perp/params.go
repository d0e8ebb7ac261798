// Package perp is the leveraged-position math engine: fees, leverage, liquidation
// price and PnL valuation over 30-decimal fixed-point USD amounts.
//
// Every function is pure. A nil *big.Int result means "unavailable": the inputs are
// missing or degenerate and the caller must show that state rather than zero.
package perp

import (
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
)

// Params holds the protocol constants the calculator prices positions with.
type Params struct {
	// MarginFeeBasisPoints is the open/close fee charged on notional.
	MarginFeeBasisPoints int64
	// LiquidationFee is the flat USD penalty taken on liquidation.
	LiquidationFee *big.Int
	// MaxLeverage in basis points; a position beyond it is liquidatable.
	MaxLeverage int64
	// LowCollateralLeverage flags positions whose size exceeds this multiple of
	// collateral after fees.
	LowCollateralLeverage int64
}

// DefaultParams returns 10 bps margin fee, 5 USD liquidation fee and 50x max leverage.
func DefaultParams() Params {
	return Params{
		MarginFeeBasisPoints:  10,
		LiquidationFee:        fixed.USD(5),
		MaxLeverage:           50 * fixed.BasisPointsDivisor,
		LowCollateralLeverage: 50,
	}
}

// Calculator prices positions under a fixed set of Params. It holds no other state
// and is safe for concurrent use.
type Calculator struct {
	params Params
}

// NewCalculator returns a calculator for params.
func NewCalculator(params Params) *Calculator {
	if params.LiquidationFee == nil {
		params.LiquidationFee = new(big.Int)
	}
	return &Calculator{params: params}
}

// Params returns the calculator's constants.
func (c *Calculator) Params() Params {
	p := c.params
	p.LiquidationFee = fixed.Clone(p.LiquidationFee)
	return p
}
