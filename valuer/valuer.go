// Package valuer reads an account's positions and the vault state they depend on,
// and values them with the position math engine.
package valuer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/common/config"
	"github.com/mcdexio/perp-position-engine/common/logging"
	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/mcdexio/perp-position-engine/perp"
	"golang.org/x/sync/errgroup"
)

type PositionReader interface {
	GetPositions(ctx context.Context, vault, account common.Address, keys []perp.PositionKey) ([]*perp.Position, error)
	GetFundingRates(ctx context.Context, vault, weth common.Address, tokens []*perp.Token) error
	GetVaultTokenInfo(ctx context.Context, vault, weth common.Address, usdgAmount *big.Int, tokens []*perp.Token) error
}

// Recorder journals computed valuations.
type Recorder interface {
	Record(ctx context.Context, account common.Address, valuations []*perp.Valuation) error
}

type Valuer struct {
	logger   logging.Logger
	reader   PositionReader
	calc     *perp.Calculator
	recorder Recorder

	vault      common.Address
	weth       common.Address
	usdgAmount *big.Int
	tokens     []config.TokenConfig
	keys       []perp.PositionKey
}

// New returns a valuer for the markets of deployment. recorder may be nil.
func New(logger logging.Logger, reader PositionReader, calc *perp.Calculator,
	deployment *config.Deployment, recorder Recorder) (*Valuer, error) {
	usdgAmount, err := fixed.ParseInteger(deployment.UsdgAmount)
	if err != nil {
		return nil, fmt.Errorf("fail to parse usdg amount: %w", err)
	}
	keys := make([]perp.PositionKey, len(deployment.Markets))
	for i, m := range deployment.Markets {
		keys[i] = perp.PositionKey{
			CollateralToken: common.HexToAddress(m.Collateral),
			IndexToken:      common.HexToAddress(m.Index),
			IsLong:          m.Long,
		}
	}
	return &Valuer{
		logger:     logger,
		reader:     reader,
		calc:       calc,
		recorder:   recorder,
		vault:      common.HexToAddress(deployment.Vault),
		weth:       common.HexToAddress(deployment.WETH),
		usdgAmount: usdgAmount,
		tokens:     deployment.Tokens,
		keys:       keys,
	}, nil
}

func (v *Valuer) Calculator() *perp.Calculator {
	return v.calc
}

func (v *Valuer) newTokens() ([]*perp.Token, map[common.Address]*perp.Token) {
	tokens := make([]*perp.Token, len(v.tokens))
	byAddress := make(map[common.Address]*perp.Token, len(v.tokens))
	for i, t := range v.tokens {
		tokens[i] = &perp.Token{
			Address:  common.HexToAddress(t.Address),
			Symbol:   t.Symbol,
			Decimals: t.Decimals,
			IsStable: t.Stable,
		}
		byAddress[tokens[i].Address] = tokens[i]
	}
	return tokens, byAddress
}

// ValueAccount reads fresh state and returns the valuations of the account's open
// positions in market order.
func (v *Valuer) ValueAccount(ctx context.Context, account common.Address) ([]*perp.Valuation, error) {
	tokens, byAddress := v.newTokens()
	var positions []*perp.Position

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return v.reader.GetFundingRates(gctx, v.vault, v.weth, tokens)
	})
	g.Go(func() error {
		return v.reader.GetVaultTokenInfo(gctx, v.vault, v.weth, v.usdgAmount, tokens)
	})
	g.Go(func() error {
		var err error
		positions, err = v.reader.GetPositions(gctx, v.vault, account, v.keys)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fail to read state of %s: %w", account.Hex(), err)
	}

	positions = perp.ActivePositions(positions)
	for _, p := range positions {
		if t, ok := byAddress[p.CollateralToken]; ok {
			p.CumulativeFundingRate = fixed.Clone(t.CumulativeFundingRate)
		}
		if t, ok := byAddress[p.IndexToken]; ok {
			p.MarkPrice = t.MarkPrice(p.IsLong)
		}
	}

	valuations := v.calc.ValuateAll(positions)
	v.logger.Debug("account %s has %d open positions", account.Hex(), len(valuations))

	if v.recorder != nil && len(valuations) > 0 {
		if err := v.recorder.Record(ctx, account, valuations); err != nil {
			v.logger.Warn("fail to record valuations of %s err=%s", account.Hex(), err)
		}
	}
	return valuations, nil
}
