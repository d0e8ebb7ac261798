package perp

import (
	"testing"

	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/stretchr/testify/suite"
)

type TokenSuite struct {
	suite.Suite
}

func (s *TokenSuite) TestPrices() {
	weth := &Token{
		Decimals:       18,
		MinPrice:       usd(1990),
		MaxPrice:       usd(2010),
		PoolAmount:     fixed.Expand(10, 18),
		ReservedAmount: fixed.Expand(4, 18),
		GuaranteedUsd:  usd(500),
	}
	s.Equal(0, usd(1990).Cmp(weth.MarkPrice(true)))
	s.Equal(0, usd(2010).Cmp(weth.MarkPrice(false)))

	s.Equal(0, usd(1990).Cmp(weth.USD(fixed.Expand(1, 18), false)))
	s.Equal(0, usd(2010).Cmp(weth.USD(fixed.Expand(1, 18), true)))
	s.Equal(0, fixed.Expand(1, 18).Cmp(weth.Amount(usd(2010), true)))

	s.Equal(0, fixed.Expand(6, 18).Cmp(weth.AvailableAmount()))
	s.Equal(0, usd(11940).Cmp(weth.AvailableUsd()))
	s.Equal(0, usd(12440).Cmp(weth.ManagedUsd()))

	// mark price is a copy
	weth.MarkPrice(true).SetInt64(0)
	s.Equal(0, usd(1990).Cmp(weth.MinPrice))
}

func (s *TokenSuite) TestStableUsesWholePool() {
	usdc := &Token{
		Decimals:       6,
		IsStable:       true,
		MinPrice:       usd(1),
		MaxPrice:       usd(1),
		PoolAmount:     fixed.Expand(1000, 6),
		ReservedAmount: fixed.Expand(400, 6),
	}
	s.Equal(0, usd(1000).Cmp(usdc.AvailableUsd()))
	s.Nil(usdc.ManagedUsd())
}

func (s *TokenSuite) TestMissingPrice() {
	t := &Token{Decimals: 18, PoolAmount: fixed.Expand(1, 18)}
	s.Nil(t.USD(t.PoolAmount, false))
	s.Nil(t.Amount(usd(1), true))
	s.Nil(t.MarkPrice(true))
}

func TestToken(t *testing.T) {
	suite.Run(t, new(TokenSuite))
}
