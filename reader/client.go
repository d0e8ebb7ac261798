package reader

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/mcdexio/perp-position-engine/common/logging"
	"github.com/mcdexio/perp-position-engine/perp"
)

const callTimeout = 30 * time.Second

// Backend is the part of an ethclient.Client the reader uses.
type Backend interface {
	ethereum.ContractCaller
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

type Block struct {
	Timestamp   int64
	BlockNumber int64
}

// Client reads position and vault state through the Reader contract.
type Client struct {
	backend Backend
	logger  logging.Logger
	reader  common.Address
	abi     abi.ABI
	closer  func()
}

func NewClient(logger logging.Logger, rpcURL string, reader common.Address) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpcURL is empty")
	}
	logger.Info("New client with rpcUrl=%s reader=%s", rpcURL, reader.Hex())
	c, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("fail to dial %s: %w", rpcURL, err)
	}
	client, err := NewClientWithBackend(logger, c, reader)
	if err != nil {
		c.Close()
		return nil, err
	}
	client.closer = c.Close
	return client, nil
}

func NewClientWithBackend(logger logging.Logger, backend Backend, reader common.Address) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(readerABI))
	if err != nil {
		return nil, fmt.Errorf("fail to parse reader abi: %w", err)
	}
	return &Client{
		backend: backend,
		logger:  logger,
		reader:  reader,
		abi:     parsed,
	}, nil
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *Client) GetLatestBlock(ctx context.Context) (*Block, error) {
	ctx30, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	header, err := c.backend.HeaderByNumber(ctx30, nil)
	if err != nil {
		return nil, fmt.Errorf("fail to get header: %w", err)
	}
	return &Block{
		BlockNumber: header.Number.Int64(),
		Timestamp:   int64(header.Time),
	}, nil
}

// GetPositions reads the positions of account for every key, in key order.
func (c *Client) GetPositions(ctx context.Context, vault, account common.Address, keys []perp.PositionKey) ([]*perp.Position, error) {
	collaterals := make([]common.Address, len(keys))
	indexes := make([]common.Address, len(keys))
	isLong := make([]bool, len(keys))
	for i, k := range keys {
		collaterals[i], indexes[i], isLong[i] = k.CollateralToken, k.IndexToken, k.IsLong
	}
	data, err := c.call(ctx, methodGetPositions, vault, account, collaterals, indexes, isLong)
	if err != nil {
		return nil, err
	}
	positions, err := perp.DecodePositions(data, keys)
	if err != nil {
		return nil, fmt.Errorf("fail to decode positions of %s: %w", account.Hex(), err)
	}
	return positions, nil
}

// GetFundingRates fills the funding rates of tokens.
func (c *Client) GetFundingRates(ctx context.Context, vault, weth common.Address, tokens []*perp.Token) error {
	data, err := c.call(ctx, methodGetFundingRates, vault, weth, addresses(tokens))
	if err != nil {
		return err
	}
	if err := perp.DecodeFundingRates(data, tokens); err != nil {
		return fmt.Errorf("fail to decode funding rates: %w", err)
	}
	return nil
}

// GetVaultTokenInfo fills the pool state and prices of tokens.
func (c *Client) GetVaultTokenInfo(ctx context.Context, vault, weth common.Address, usdgAmount *big.Int, tokens []*perp.Token) error {
	if usdgAmount == nil {
		usdgAmount = new(big.Int)
	}
	data, err := c.call(ctx, methodGetVaultTokenInfo, vault, weth, usdgAmount, addresses(tokens))
	if err != nil {
		return err
	}
	if err := perp.DecodeTokenInfo(data, tokens); err != nil {
		return fmt.Errorf("fail to decode token info: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]*big.Int, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("fail to pack %s: %w", method, err)
	}
	ctx30, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	output, err := c.backend.CallContract(ctx30, ethereum.CallMsg{To: &c.reader, Data: input}, nil)
	if err != nil {
		c.logger.Error("fail to call %s on %s err=%s", method, c.reader.Hex(), err)
		return nil, fmt.Errorf("fail to call %s: %w", method, err)
	}
	var result []*big.Int
	if err := c.abi.Unpack(&result, method, output); err != nil {
		return nil, fmt.Errorf("fail to unpack %s: %w", method, err)
	}
	return result, nil
}

func addresses(tokens []*perp.Token) []common.Address {
	out := make([]common.Address, len(tokens))
	for i, t := range tokens {
		out[i] = t.Address
	}
	return out
}
