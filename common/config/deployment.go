package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidDeployment = errors.New("invalid deployment")

// TokenConfig describes a whitelisted vault token.
type TokenConfig struct {
	Address  string `toml:"address"`
	Symbol   string `toml:"symbol"`
	Decimals int    `toml:"decimals"`
	Stable   bool   `toml:"stable"`
}

// MarketConfig describes one position slot: collateral token, index token and side.
type MarketConfig struct {
	Collateral string `toml:"collateral"`
	Index      string `toml:"index"`
	Long       bool   `toml:"long"`
}

// Deployment holds the contract addresses and markets the valuer reads.
type Deployment struct {
	Reader     string         `toml:"reader"`
	Vault      string         `toml:"vault"`
	WETH       string         `toml:"weth"`
	UsdgAmount string         `toml:"usdg_amount"`
	Tokens     []TokenConfig  `toml:"tokens"`
	Markets    []MarketConfig `toml:"markets"`
}

// LoadDeployment decodes and validates a TOML deployment file.
func LoadDeployment(path string) (*Deployment, error) {
	var d Deployment
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return nil, fmt.Errorf("fail to decode deployment %s: %w", path, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseDeployment decodes and validates deployment TOML held in memory.
func ParseDeployment(data string) (*Deployment, error) {
	var d Deployment
	if _, err := toml.Decode(data, &d); err != nil {
		return nil, fmt.Errorf("fail to decode deployment: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Token returns the configured token with the given address.
func (d *Deployment) Token(addr common.Address) (TokenConfig, bool) {
	for _, t := range d.Tokens {
		if common.HexToAddress(t.Address) == addr {
			return t, true
		}
	}
	return TokenConfig{}, false
}

func (d *Deployment) validate() error {
	if d.UsdgAmount == "" {
		d.UsdgAmount = "0"
	}
	for name, addr := range map[string]string{"reader": d.Reader, "vault": d.Vault, "weth": d.WETH} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%w: %s address %q", ErrInvalidDeployment, name, addr)
		}
	}
	if len(d.Tokens) == 0 {
		return fmt.Errorf("%w: tokens is empty", ErrInvalidDeployment)
	}
	for i := range d.Tokens {
		t := &d.Tokens[i]
		if !common.IsHexAddress(t.Address) {
			return fmt.Errorf("%w: token address %q", ErrInvalidDeployment, t.Address)
		}
		if t.Decimals < 0 || t.Decimals > 77 {
			return fmt.Errorf("%w: token %s decimals %d", ErrInvalidDeployment, t.Address, t.Decimals)
		}
		t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	}
	for _, m := range d.Markets {
		for _, addr := range []string{m.Collateral, m.Index} {
			if _, ok := d.Token(common.HexToAddress(addr)); !ok || !common.IsHexAddress(addr) {
				return fmt.Errorf("%w: market token %q is not listed", ErrInvalidDeployment, addr)
			}
		}
	}
	return nil
}
