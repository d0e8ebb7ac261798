// Package fixed implements exact fixed-point arithmetic over *big.Int.
//
// A nil *big.Int stands for an absent value. Every helper propagates nil instead of
// panicking, and a zero divisor yields nil, so "not yet computable" flows through a
// chain of calculations as a single absent result. Division truncates toward zero
// to reproduce on-chain integer rounding bit for bit. Results are always fresh
// values; inputs are never mutated.
package fixed

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

const (
	// USDDecimals is the exponent of USD amounts.
	USDDecimals = 30
	// BasisPointsDivisor is the denominator of basis-point ratios.
	BasisPointsDivisor = 10_000
	// FundingRatePrecision is the denominator of funding-rate accumulators.
	FundingRatePrecision = 1_000_000
)

var (
	// Precision is 10^USDDecimals, one USD.
	Precision = math.BigPow(10, USDDecimals)

	bigBasisPoints = big.NewInt(BasisPointsDivisor)
	bigFundingPrec = big.NewInt(FundingRatePrecision)
)

// BasisPoints returns the basis-points divisor as a new value.
func BasisPoints() *big.Int {
	return new(big.Int).Set(bigBasisPoints)
}

// FundingPrecision returns the funding-rate divisor as a new value.
func FundingPrecision() *big.Int {
	return new(big.Int).Set(bigFundingPrec)
}

// Expand scales value by 10^decimals.
func Expand(value int64, decimals int) *big.Int {
	return new(big.Int).Mul(big.NewInt(value), math.BigPow(10, int64(decimals)))
}

// USD returns value whole dollars in 30-decimal fixed point.
func USD(value int64) *big.Int {
	return Expand(value, USDDecimals)
}

// Pow10 returns 10^decimals.
func Pow10(decimals int) *big.Int {
	return math.BigPow(10, int64(decimals))
}

// Clone returns a copy of v, or nil.
func Clone(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// Add returns a + b.
func Add(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	return new(big.Int).Add(a, b)
}

// Sub returns a - b.
func Sub(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	return new(big.Int).Sub(a, b)
}

// Mul returns a * b.
func Mul(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	return new(big.Int).Mul(a, b)
}

// Div returns a / b truncated toward zero, nil when b is absent or zero.
func Div(a, b *big.Int) *big.Int {
	if a == nil || IsZero(b) {
		return nil
	}
	return new(big.Int).Quo(a, b)
}

// MulDiv returns a * b / c, multiplying before dividing.
func MulDiv(a, b, c *big.Int) *big.Int {
	return Div(Mul(a, b), c)
}

// Abs returns |v|.
func Abs(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Abs(v)
}

// IsZero reports whether v is absent or zero.
func IsZero(v *big.Int) bool {
	return v == nil || v.Sign() == 0
}

// IsPositive reports whether v is present and > 0.
func IsPositive(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}

// OrZero returns v, or a new zero when v is absent.
func OrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// Max returns the larger of a and b; an absent side yields the other.
func Max(a, b *big.Int) *big.Int {
	switch {
	case a == nil:
		return Clone(b)
	case b == nil:
		return Clone(a)
	case a.Cmp(b) >= 0:
		return Clone(a)
	default:
		return Clone(b)
	}
}

// Min returns the smaller of a and b; an absent side yields the other.
func Min(a, b *big.Int) *big.Int {
	switch {
	case a == nil:
		return Clone(b)
	case b == nil:
		return Clone(a)
	case a.Cmp(b) <= 0:
		return Clone(a)
	default:
		return Clone(b)
	}
}
