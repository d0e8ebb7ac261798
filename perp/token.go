package perp

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/fixed"
)

// Token is a vault token: static metadata plus pool state refreshed every read.
// Prices are 30-decimal USD per whole token.
type Token struct {
	Address  common.Address
	Symbol   string
	Decimals int
	IsStable bool

	MinPrice *big.Int
	MaxPrice *big.Int

	PoolAmount       *big.Int
	ReservedAmount   *big.Int
	UsdgAmount       *big.Int
	RedemptionAmount *big.Int
	Weight           *big.Int
	GuaranteedUsd    *big.Int
	MaxPrimaryPrice  *big.Int
	MinPrimaryPrice  *big.Int

	FundingRate           *big.Int
	CumulativeFundingRate *big.Int
}

// MarkPrice returns the price a position on this index token is valued at:
// the bid for longs, the ask for shorts.
func (t *Token) MarkPrice(isLong bool) *big.Int {
	if isLong {
		return fixed.Clone(t.MinPrice)
	}
	return fixed.Clone(t.MaxPrice)
}

func (t *Token) price(max bool) *big.Int {
	if max {
		return t.MaxPrice
	}
	return t.MinPrice
}

// USD converts a token amount to USD at the min or max price.
func (t *Token) USD(amount *big.Int, max bool) *big.Int {
	return fixed.MulDiv(amount, t.price(max), fixed.Pow10(t.Decimals))
}

// Amount converts a USD value to a token amount at the min or max price.
func (t *Token) Amount(usd *big.Int, max bool) *big.Int {
	return fixed.MulDiv(usd, fixed.Pow10(t.Decimals), t.price(max))
}

// AvailableAmount is the pool amount not reserved for open positions.
func (t *Token) AvailableAmount() *big.Int {
	return fixed.Sub(t.PoolAmount, t.ReservedAmount)
}

// AvailableUsd values the whole pool for stables and the unreserved part otherwise.
func (t *Token) AvailableUsd() *big.Int {
	if t.IsStable {
		return t.USD(t.PoolAmount, false)
	}
	return t.USD(t.AvailableAmount(), false)
}

// ManagedUsd is AvailableUsd plus the USD guaranteed to open longs.
func (t *Token) ManagedUsd() *big.Int {
	return fixed.Add(t.AvailableUsd(), t.GuaranteedUsd)
}
