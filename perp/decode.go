package perp

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
)

var ErrMalformedData = errors.New("malformed reader data")

// Field counts of the reader's flat uint256 arrays.
const (
	PositionPropsLength = 9
	FundingPropsLength  = 2
	TokenPropsLength    = 10
)

func checkLength(what string, data []*big.Int, items, props int) error {
	if len(data) != items*props {
		return fmt.Errorf("%w: %s has %d fields, want %d x %d", ErrMalformedData, what, len(data), items, props)
	}
	for i, v := range data {
		if v == nil {
			return fmt.Errorf("%w: %s field %d is nil", ErrMalformedData, what, i)
		}
	}
	return nil
}

// DecodePositions reads one position per key from the layout
// [size, collateral, averagePrice, entryFundingRate, hasRealisedProfit,
// realisedPnl, lastIncreasedTime, hasProfit, delta].
func DecodePositions(data []*big.Int, keys []PositionKey) ([]*Position, error) {
	if err := checkLength("positions", data, len(keys), PositionPropsLength); err != nil {
		return nil, err
	}
	positions := make([]*Position, len(keys))
	for i, key := range keys {
		f := data[i*PositionPropsLength : (i+1)*PositionPropsLength]
		if !f[6].IsInt64() {
			return nil, fmt.Errorf("%w: lastIncreasedTime %s overflows", ErrMalformedData, f[6])
		}
		positions[i] = &Position{
			PositionKey:       key,
			Size:              fixed.Clone(f[0]),
			Collateral:        fixed.Clone(f[1]),
			AveragePrice:      fixed.Clone(f[2]),
			EntryFundingRate:  fixed.Clone(f[3]),
			HasRealisedProfit: f[4].Sign() != 0,
			RealisedPnl:       fixed.Clone(f[5]),
			LastIncreasedTime: f[6].Int64(),
			HasProfit:         f[7].Sign() != 0,
			Delta:             fixed.Clone(f[8]),
		}
	}
	return positions, nil
}

// DecodeFundingRates fills FundingRate and CumulativeFundingRate of tokens from
// the layout [fundingRate, cumulativeFundingRate].
func DecodeFundingRates(data []*big.Int, tokens []*Token) error {
	if err := checkLength("funding rates", data, len(tokens), FundingPropsLength); err != nil {
		return err
	}
	for i, t := range tokens {
		f := data[i*FundingPropsLength:]
		t.FundingRate = fixed.Clone(f[0])
		t.CumulativeFundingRate = fixed.Clone(f[1])
	}
	return nil
}

// DecodeTokenInfo fills the pool state of tokens from the layout
// [poolAmount, reservedAmount, usdgAmount, redemptionAmount, weight, minPrice,
// maxPrice, guaranteedUsd, maxPrimaryPrice, minPrimaryPrice].
func DecodeTokenInfo(data []*big.Int, tokens []*Token) error {
	if err := checkLength("token info", data, len(tokens), TokenPropsLength); err != nil {
		return err
	}
	for i, t := range tokens {
		f := data[i*TokenPropsLength:]
		t.PoolAmount = fixed.Clone(f[0])
		t.ReservedAmount = fixed.Clone(f[1])
		t.UsdgAmount = fixed.Clone(f[2])
		t.RedemptionAmount = fixed.Clone(f[3])
		t.Weight = fixed.Clone(f[4])
		t.MinPrice = fixed.Clone(f[5])
		t.MaxPrice = fixed.Clone(f[6])
		t.GuaranteedUsd = fixed.Clone(f[7])
		t.MaxPrimaryPrice = fixed.Clone(f[8])
		t.MinPrimaryPrice = fixed.Clone(f[9])
	}
	return nil
}
