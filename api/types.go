package api

import (
	"fmt"
	"math/big"

	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/mcdexio/perp-position-engine/perp"
)

// PositionRequest carries raw fixed-point integers as base-10 strings. An empty
// string is an absent value.
type PositionRequest struct {
	Size         string `json:"size"`
	SizeDelta    string `json:"sizeDelta"`
	IncreaseSize bool   `json:"increaseSize"`

	Collateral         string `json:"collateral"`
	CollateralDelta    string `json:"collateralDelta"`
	IncreaseCollateral bool   `json:"increaseCollateral"`

	AveragePrice string `json:"averagePrice"`
	IsLong       bool   `json:"isLong"`

	EntryFundingRate      string `json:"entryFundingRate"`
	CumulativeFundingRate string `json:"cumulativeFundingRate"`

	HasProfit    bool   `json:"hasProfit"`
	Delta        string `json:"delta"`
	IncludeDelta bool   `json:"includeDelta"`

	MarkPrice string `json:"markPrice"`
}

func (r *PositionRequest) parse() (change perp.PositionChange, markPrice *big.Int, err error) {
	fields := []struct {
		name string
		raw  string
		dst  **big.Int
	}{
		{"size", r.Size, &change.Size},
		{"sizeDelta", r.SizeDelta, &change.SizeDelta},
		{"collateral", r.Collateral, &change.Collateral},
		{"collateralDelta", r.CollateralDelta, &change.CollateralDelta},
		{"averagePrice", r.AveragePrice, &change.AveragePrice},
		{"entryFundingRate", r.EntryFundingRate, &change.EntryFundingRate},
		{"cumulativeFundingRate", r.CumulativeFundingRate, &change.CumulativeFundingRate},
		{"delta", r.Delta, &change.Delta},
		{"markPrice", r.MarkPrice, &markPrice},
	}
	for _, f := range fields {
		v, err := fixed.ParseInteger(f.raw)
		if err != nil {
			return change, nil, fmt.Errorf("%s: %w", f.name, err)
		}
		if v != nil && v.Sign() < 0 {
			return change, nil, fmt.Errorf("%s: must not be negative", f.name)
		}
		*f.dst = v
	}
	change.IncreaseSize = r.IncreaseSize
	change.IncreaseCollateral = r.IncreaseCollateral
	change.IsLong = r.IsLong
	change.HasProfit = r.HasProfit
	change.IncludeDelta = r.IncludeDelta
	return change, markPrice, nil
}

func (r *PositionRequest) position() (*perp.Position, error) {
	change, markPrice, err := r.parse()
	if err != nil {
		return nil, err
	}
	return &perp.Position{
		PositionKey:           perp.PositionKey{IsLong: change.IsLong},
		Size:                  change.Size,
		Collateral:            change.Collateral,
		AveragePrice:          change.AveragePrice,
		EntryFundingRate:      change.EntryFundingRate,
		CumulativeFundingRate: change.CumulativeFundingRate,
		HasProfit:             change.HasProfit,
		Delta:                 change.Delta,
		MarkPrice:             markPrice,
	}, nil
}

func intString(v *big.Int) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

type LeverageResp struct {
	Available     bool    `json:"available"`
	Leverage      *string `json:"leverage"`
	Display       string  `json:"display"`
	OverLeveraged bool    `json:"overLeveraged"`
}

type LiquidationPriceResp struct {
	Available        bool    `json:"available"`
	LiquidationPrice *string `json:"liquidationPrice"`
	ForFees          *string `json:"forFees"`
	ForMaxLeverage   *string `json:"forMaxLeverage"`
	Display          string  `json:"display"`
}

type FeesResp struct {
	Available   bool    `json:"available"`
	PositionFee *string `json:"positionFee"`
	MarginFee   *string `json:"marginFee"`
	FundingFee  *string `json:"fundingFee"`
}

type ValuationResp struct {
	CollateralToken    string  `json:"collateralToken,omitempty"`
	IndexToken         string  `json:"indexToken,omitempty"`
	IsLong             bool    `json:"isLong"`
	Size               *string `json:"size"`
	Collateral         *string `json:"collateral"`
	AveragePrice       *string `json:"averagePrice"`
	MarkPrice          *string `json:"markPrice"`
	Leverage           *string `json:"leverage"`
	LeverageWithPnL    *string `json:"leverageWithPnl"`
	LiquidationPrice   *string `json:"liquidationPrice"`
	ClosingFee         *string `json:"closingFee"`
	FundingFee         *string `json:"fundingFee"`
	CollateralAfterFee *string `json:"collateralAfterFee"`
	HasProfit          bool    `json:"hasProfit"`
	PendingDelta       *string `json:"pendingDelta"`
	DeltaPercentage    *string `json:"deltaPercentage"`
	NetValue           *string `json:"netValue"`
	HasLowCollateral   bool    `json:"hasLowCollateral"`
}

func newValuationResp(v *perp.Valuation, withKey bool) *ValuationResp {
	p := v.Position
	resp := &ValuationResp{
		IsLong:             p.IsLong,
		Size:               intString(p.Size),
		Collateral:         intString(p.Collateral),
		AveragePrice:       intString(p.AveragePrice),
		MarkPrice:          intString(p.MarkPrice),
		Leverage:           intString(v.Leverage),
		LeverageWithPnL:    intString(v.LeverageWithPnL),
		LiquidationPrice:   intString(v.LiquidationPrice),
		ClosingFee:         intString(v.ClosingFee),
		FundingFee:         intString(v.FundingFee),
		CollateralAfterFee: intString(v.CollateralAfterFee),
		HasProfit:          v.HasProfit,
		PendingDelta:       intString(v.PendingDelta),
		DeltaPercentage:    intString(v.DeltaPercentage),
		NetValue:           intString(v.NetValue),
		HasLowCollateral:   v.HasLowCollateral,
	}
	if withKey {
		resp.CollateralToken = p.CollateralToken.Hex()
		resp.IndexToken = p.IndexToken.Hex()
	}
	return resp
}
