package reader

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/mcdexio/perp-position-engine/common/logging"
	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/mcdexio/perp-position-engine/perp"
	"github.com/stretchr/testify/suite"
)

type fakeBackend struct {
	abi      abi.ABI
	outputs  map[string][]*big.Int
	calls    map[string][]interface{}
	err      error
	deadline bool
}

func newFakeBackend() *fakeBackend {
	parsed, err := abi.JSON(strings.NewReader(readerABI))
	if err != nil {
		panic(err)
	}
	return &fakeBackend{
		abi:     parsed,
		outputs: make(map[string][]*big.Int),
		calls:   make(map[string][]interface{}),
	}
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	method, err := f.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.UnpackValues(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	f.calls[method.Name] = args
	return method.Outputs.Pack(f.outputs[method.Name])
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1234), Time: 1650000000}, nil
}

type ClientSuite struct {
	suite.Suite
	backend *fakeBackend
	client  *Client
	vault   common.Address
	weth    common.Address
	usdc    common.Address
}

func (s *ClientSuite) SetupTest() {
	s.backend = newFakeBackend()
	logger := logging.NewLoggerWithWriter("reader", &bytes.Buffer{})
	var err error
	s.client, err = NewClientWithBackend(logger, s.backend, common.HexToAddress("0x100"))
	s.Require().NoError(err)
	s.vault = common.HexToAddress("0x200")
	s.weth = common.HexToAddress("0x300")
	s.usdc = common.HexToAddress("0x400")
}

func (s *ClientSuite) TestGetPositions() {
	account := common.HexToAddress("0x500")
	keys := []perp.PositionKey{
		{CollateralToken: s.weth, IndexToken: s.weth, IsLong: true},
		{CollateralToken: s.usdc, IndexToken: s.weth, IsLong: false},
	}
	s.backend.outputs[methodGetPositions] = []*big.Int{
		fixed.USD(1000), fixed.USD(100), fixed.USD(2000), big.NewInt(5), big.NewInt(0),
		big.NewInt(0), big.NewInt(1650000000), big.NewInt(1), fixed.USD(50),
		big.NewInt(0), big.NewInt(0), big.NewInt(0), big.NewInt(0), big.NewInt(0),
		big.NewInt(0), big.NewInt(0), big.NewInt(0), big.NewInt(0),
	}

	positions, err := s.client.GetPositions(context.Background(), s.vault, account, keys)
	s.Require().NoError(err)
	s.Require().Len(positions, 2)
	s.True(s.backend.deadline)

	p := positions[0]
	s.Equal(keys[0], p.PositionKey)
	s.Equal(0, fixed.USD(1000).Cmp(p.Size))
	s.Equal(0, fixed.USD(2000).Cmp(p.AveragePrice))
	s.True(p.HasProfit)
	s.Equal(0, fixed.USD(50).Cmp(p.Delta))
	s.Len(perp.ActivePositions(positions), 1)

	args := s.backend.calls[methodGetPositions]
	s.Require().Len(args, 5)
	s.Equal(s.vault, args[0])
	s.Equal(account, args[1])
	s.Equal([]common.Address{s.weth, s.usdc}, args[2])
	s.Equal([]common.Address{s.weth, s.weth}, args[3])
	s.Equal([]bool{true, false}, args[4])
}

func (s *ClientSuite) TestGetPositionsMalformed() {
	s.backend.outputs[methodGetPositions] = []*big.Int{big.NewInt(1)}
	_, err := s.client.GetPositions(context.Background(), s.vault, common.Address{},
		[]perp.PositionKey{{CollateralToken: s.weth, IndexToken: s.weth, IsLong: true}})
	s.True(errors.Is(err, perp.ErrMalformedData))
}

func (s *ClientSuite) TestTokenState() {
	tokens := []*perp.Token{{Address: s.weth, Decimals: 18}, {Address: s.usdc, Decimals: 6, IsStable: true}}

	s.backend.outputs[methodGetFundingRates] = []*big.Int{
		big.NewInt(100), big.NewInt(5000), big.NewInt(50), big.NewInt(3000),
	}
	s.Require().NoError(s.client.GetFundingRates(context.Background(), s.vault, s.weth, tokens))
	s.Equal(int64(5000), tokens[0].CumulativeFundingRate.Int64())
	s.Equal(int64(3000), tokens[1].CumulativeFundingRate.Int64())
	s.Equal([]common.Address{s.weth, s.usdc}, s.backend.calls[methodGetFundingRates][2])

	info := make([]*big.Int, 2*perp.TokenPropsLength)
	for i := range info {
		info[i] = big.NewInt(int64(i + 1))
	}
	// nothing returned for two tokens
	err := s.client.GetVaultTokenInfo(context.Background(), s.vault, s.weth, nil, tokens)
	s.True(errors.Is(err, perp.ErrMalformedData))
	s.Equal(0, s.backend.calls[methodGetVaultTokenInfo][2].(*big.Int).Sign())

	s.backend.outputs[methodGetVaultTokenInfo] = info
	s.Require().NoError(s.client.GetVaultTokenInfo(context.Background(), s.vault, s.weth, fixed.Expand(1, 18), tokens))
	s.Equal(int64(6), tokens[0].MinPrice.Int64())
	s.Equal(int64(17), tokens[1].MaxPrice.Int64())
	s.Equal(0, fixed.Expand(1, 18).Cmp(s.backend.calls[methodGetVaultTokenInfo][2].(*big.Int)))
}

func (s *ClientSuite) TestCallError() {
	s.backend.err = errors.New("connection refused")
	err := s.client.GetFundingRates(context.Background(), s.vault, s.weth, []*perp.Token{{Address: s.weth}})
	s.Require().Error(err)
	s.Contains(err.Error(), "connection refused")
	s.True(errors.Is(err, s.backend.err))
}

func (s *ClientSuite) TestLatestBlock() {
	block, err := s.client.GetLatestBlock(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(1234), block.BlockNumber)
	s.Equal(int64(1650000000), block.Timestamp)
}

func (s *ClientSuite) TestEmptyRPC() {
	_, err := NewClient(s.client.logger, "", common.Address{})
	s.Require().Error(err)
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}
