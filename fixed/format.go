package fixed

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a fixed-point integer with the given exponent to a decimal.
// The conversion is exact.
func ToDecimal(v *big.Int, decimals int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -int32(decimals))
}

// FromDecimal converts d to a fixed-point integer, truncating digits beyond decimals.
func FromDecimal(d decimal.Decimal, decimals int) *big.Int {
	return d.Shift(int32(decimals)).BigInt()
}

// Format renders v with displayDecimals fractional digits, "-" when absent.
func Format(v *big.Int, decimals, displayDecimals int) string {
	if v == nil {
		return "-"
	}
	return ToDecimal(v, decimals).StringFixed(int32(displayDecimals))
}

// FormatUSD renders a 30-decimal USD amount as "$1234.56".
func FormatUSD(v *big.Int) string {
	if v == nil {
		return "-"
	}
	s := Format(Abs(v), USDDecimals, 2)
	if v.Sign() < 0 {
		return "-$" + s
	}
	return "$" + s
}

// FormatLeverage renders a basis-points leverage as "10.00x".
func FormatLeverage(bps *big.Int) string {
	if bps == nil {
		return "-"
	}
	return Format(bps, 4, 2) + "x"
}

// Parse parses a human decimal string such as "1000.5" into fixed point with the
// given exponent, truncating extra digits.
func Parse(s string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("fail to parse amount %q: %w", s, err)
	}
	return FromDecimal(d, decimals), nil
}

// ParseInteger parses a base-10 raw fixed-point integer. An empty string is absent.
func ParseInteger(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}
