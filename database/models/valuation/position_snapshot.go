package valuation

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/database/models"
	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/mcdexio/perp-position-engine/perp"
	"github.com/shopspring/decimal"
)

// AllModels is the list of tables owned by the valuer.
var AllModels = []interface{}{
	&models.System{},
	&PositionSnapshot{},
}

// PositionSnapshot is one valued position of an account at a point in time.
// Amounts are the raw fixed-point integers; a NULL column is an unavailable value.
type PositionSnapshot struct {
	ID              int64  `gorm:"column:id;primary_key;AUTO_INCREMENT;not null"`
	Account         string `gorm:"column:account;type:varchar(42);not null" json:"account"`
	CollateralToken string `gorm:"column:collateral_token;type:varchar(42);not null" json:"collateral_token"`
	IndexToken      string `gorm:"column:index_token;type:varchar(42);not null" json:"index_token"`
	IsLong          bool   `gorm:"column:is_long;not null" json:"is_long"`

	Size         decimal.Decimal     `gorm:"column:size;type:numeric(78,0);not null" json:"size"`
	Collateral   decimal.Decimal     `gorm:"column:collateral;type:numeric(78,0);not null" json:"collateral"`
	AveragePrice decimal.NullDecimal `gorm:"column:average_price;type:numeric(78,0)" json:"average_price"`
	MarkPrice    decimal.NullDecimal `gorm:"column:mark_price;type:numeric(78,0)" json:"mark_price"`

	Leverage         decimal.NullDecimal `gorm:"column:leverage;type:numeric(78,0)" json:"leverage"`
	LiquidationPrice decimal.NullDecimal `gorm:"column:liquidation_price;type:numeric(78,0)" json:"liquidation_price"`
	ClosingFee       decimal.NullDecimal `gorm:"column:closing_fee;type:numeric(78,0)" json:"closing_fee"`
	FundingFee       decimal.NullDecimal `gorm:"column:funding_fee;type:numeric(78,0)" json:"funding_fee"`
	HasProfit        bool                `gorm:"column:has_profit;not null" json:"has_profit"`
	PendingDelta     decimal.NullDecimal `gorm:"column:pending_delta;type:numeric(78,0)" json:"pending_delta"`
	NetValue         decimal.NullDecimal `gorm:"column:net_value;type:numeric(78,0)" json:"net_value"`
	HasLowCollateral bool                `gorm:"column:has_low_collateral;not null" json:"has_low_collateral"`

	Timestamp int64 `gorm:"column:timestamp;type:bigint;not null" json:"timestamp"`

	models.Base
}

// Indexes returns information to create index.
func (*PositionSnapshot) Indexes() []models.CustomIndex {
	return []models.CustomIndex{
		{
			Name:   "account_timestamp",
			Fields: []string{"account", "timestamp"},
		},
	}
}

// AccountKey is the stored form of an account address.
func AccountKey(account common.Address) string {
	return strings.ToLower(account.Hex())
}

func raw(v *big.Int) decimal.Decimal {
	return fixed.ToDecimal(fixed.OrZero(v), 0)
}

func nullable(v *big.Int) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: fixed.ToDecimal(v, 0), Valid: true}
}

// Int returns the raw integer of a nullable column, nil when NULL.
func Int(d decimal.NullDecimal) *big.Int {
	if !d.Valid {
		return nil
	}
	return fixed.FromDecimal(d.Decimal, 0)
}

// NewPositionSnapshot converts a valuation to its stored form.
func NewPositionSnapshot(account common.Address, v *perp.Valuation, timestamp int64) *PositionSnapshot {
	p := v.Position
	return &PositionSnapshot{
		Account:          AccountKey(account),
		CollateralToken:  AccountKey(p.CollateralToken),
		IndexToken:       AccountKey(p.IndexToken),
		IsLong:           p.IsLong,
		Size:             raw(p.Size),
		Collateral:       raw(p.Collateral),
		AveragePrice:     nullable(p.AveragePrice),
		MarkPrice:        nullable(p.MarkPrice),
		Leverage:         nullable(v.Leverage),
		LiquidationPrice: nullable(v.LiquidationPrice),
		ClosingFee:       nullable(v.ClosingFee),
		FundingFee:       nullable(v.FundingFee),
		HasProfit:        v.HasProfit,
		PendingDelta:     nullable(v.PendingDelta),
		NetValue:         nullable(v.NetValue),
		HasLowCollateral: v.HasLowCollateral,
		Timestamp:        timestamp,
	}
}
