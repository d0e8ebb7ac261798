package fixed

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"
)

type FixedSuite struct {
	suite.Suite
}

func (s *FixedSuite) TestExpand() {
	s.Equal("1000000000000000000", Expand(1, 18).String())
	s.Equal(0, USD(1).Cmp(Precision))
	s.Equal("1500", Expand(15, 2).String())
	s.Equal("7", Expand(7, 0).String())
}

func (s *FixedSuite) TestNilPropagates() {
	one := big.NewInt(1)
	s.Nil(Add(nil, one))
	s.Nil(Sub(one, nil))
	s.Nil(Mul(nil, nil))
	s.Nil(Div(nil, one))
	s.Nil(MulDiv(one, nil, one))
	s.Nil(Abs(nil))
	s.Nil(Clone(nil))
}

func (s *FixedSuite) TestDivisionByZeroIsAbsent() {
	s.NotPanics(func() {
		s.Nil(Div(big.NewInt(10), big.NewInt(0)))
		s.Nil(Div(big.NewInt(10), nil))
		s.Nil(MulDiv(big.NewInt(10), big.NewInt(3), new(big.Int)))
	})
}

func (s *FixedSuite) TestTruncatesTowardZero() {
	s.Equal("3", Div(big.NewInt(7), big.NewInt(2)).String())
	s.Equal("-3", Div(big.NewInt(-7), big.NewInt(2)).String())
	s.Equal("-3", Div(big.NewInt(7), big.NewInt(-2)).String())
	// multiply first: 10 * 3 / 4 = 7, not 10 / 4 * 3 = 6
	s.Equal("7", MulDiv(big.NewInt(10), big.NewInt(3), big.NewInt(4)).String())
}

func (s *FixedSuite) TestDoesNotMutateInputs() {
	a, b := big.NewInt(5), big.NewInt(3)
	_ = Add(a, b)
	_ = Sub(a, b)
	_ = MulDiv(a, b, b)
	s.Equal(int64(5), a.Int64())
	s.Equal(int64(3), b.Int64())

	c := Clone(a)
	c.SetInt64(9)
	s.Equal(int64(5), a.Int64())
}

func (s *FixedSuite) TestMinMax() {
	one, two := big.NewInt(1), big.NewInt(2)
	s.Equal(two, Max(one, two))
	s.Equal(one, Min(one, two))
	s.Equal(one, Max(nil, one))
	s.Equal(two, Min(two, nil))
	s.Nil(Max(nil, nil))
	s.Nil(Min(nil, nil))
}

func (s *FixedSuite) TestPredicates() {
	s.True(IsZero(nil))
	s.True(IsZero(new(big.Int)))
	s.False(IsZero(big.NewInt(-1)))
	s.True(IsPositive(big.NewInt(1)))
	s.False(IsPositive(big.NewInt(-1)))
	s.False(IsPositive(nil))
	s.Equal(0, OrZero(nil).Sign())
}

func (s *FixedSuite) TestFormat() {
	s.Equal("1234.56", Format(Expand(123456, 28), USDDecimals, 2))
	s.Equal("-", Format(nil, USDDecimals, 2))
	s.Equal("$1000.00", FormatUSD(USD(1000)))
	s.Equal("-$5.00", FormatUSD(USD(-5)))
	s.Equal("10.00x", FormatLeverage(big.NewInt(100_000)))
	s.Equal("-", FormatLeverage(nil))
}

func (s *FixedSuite) TestParse() {
	v, err := Parse("1000.5", USDDecimals)
	s.Require().NoError(err)
	s.Equal(0, v.Cmp(Expand(10005, 29)))

	v, err = Parse("0.1234567", 6)
	s.Require().NoError(err)
	s.Equal("123456", v.String())

	_, err = Parse("ten", 6)
	s.Require().Error(err)

	v, err = ParseInteger("")
	s.Require().NoError(err)
	s.Nil(v)

	v, err = ParseInteger("-42")
	s.Require().NoError(err)
	s.Equal(int64(-42), v.Int64())

	_, err = ParseInteger("4.2")
	s.Require().Error(err)
}

func (s *FixedSuite) TestDecimalRoundTrip() {
	v := Expand(123456789, 21)
	s.Equal(0, FromDecimal(ToDecimal(v, USDDecimals), USDDecimals).Cmp(v))
}

func TestFixed(t *testing.T) {
	suite.Run(t, new(FixedSuite))
}
