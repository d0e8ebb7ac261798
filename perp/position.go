package perp

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/fixed"
)

// PositionKey identifies a position slot of an account in the vault.
type PositionKey struct {
	CollateralToken common.Address
	IndexToken      common.Address
	IsLong          bool
}

func (k PositionKey) String() string {
	side := "short"
	if k.IsLong {
		side = "long"
	}
	return fmt.Sprintf("%s:%s:%s", k.CollateralToken.Hex(), k.IndexToken.Hex(), side)
}

// Position is a read-only snapshot of on-chain position state.
type Position struct {
	PositionKey

	Size                  *big.Int
	Collateral            *big.Int
	AveragePrice          *big.Int
	EntryFundingRate      *big.Int
	CumulativeFundingRate *big.Int

	HasRealisedProfit bool
	RealisedPnl       *big.Int
	LastIncreasedTime int64

	// HasProfit and Delta are the PnL the reader computed at its own price.
	HasProfit bool
	Delta     *big.Int

	// MarkPrice is the bid for longs and the ask for shorts.
	MarkPrice *big.Int
}

// IsClosed reports a zero-size slot.
func (p *Position) IsClosed() bool {
	return fixed.IsZero(p.Size)
}

// Change returns the position as a PositionChange with no pending deltas.
func (p *Position) Change() PositionChange {
	return PositionChange{
		Size:                  p.Size,
		Collateral:            p.Collateral,
		AveragePrice:          p.AveragePrice,
		IsLong:                p.IsLong,
		EntryFundingRate:      p.EntryFundingRate,
		CumulativeFundingRate: p.CumulativeFundingRate,
		HasProfit:             p.HasProfit,
		Delta:                 p.Delta,
	}
}

// ActivePositions drops closed positions, keeping order.
func ActivePositions(positions []*Position) []*Position {
	active := make([]*Position, 0, len(positions))
	for _, p := range positions {
		if p != nil && !p.IsClosed() {
			active = append(active, p)
		}
	}
	return active
}
