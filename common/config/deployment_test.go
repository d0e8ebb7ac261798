package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

const deploymentTOML = `
reader = "0x2b43c90D1B727cEe1Df34925bcd5Ace52Ec37694"
vault = "0x489ee077994B6658eAfA855C308275EAd8097C4A"
weth = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"

[[tokens]]
address = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
symbol = " eth "
decimals = 18

[[tokens]]
address = "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8"
symbol = "usdc"
decimals = 6
stable = true

[[markets]]
collateral = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
index = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
long = true

[[markets]]
collateral = "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8"
index = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
long = false
`

type DeploymentSuite struct {
	suite.Suite
}

func (s *DeploymentSuite) TestLoadFile() {
	path := filepath.Join(s.T().TempDir(), "deployment.toml")
	s.Require().NoError(os.WriteFile(path, []byte(deploymentTOML), 0o600))

	d, err := LoadDeployment(path)
	s.Require().NoError(err)
	s.Require().Len(d.Tokens, 2)
	s.Require().Len(d.Markets, 2)
	s.Equal("ETH", d.Tokens[0].Symbol)
	s.Equal("USDC", d.Tokens[1].Symbol)
	s.True(d.Tokens[1].Stable)
	s.Equal("0", d.UsdgAmount)
	s.False(d.Markets[1].Long)

	tok, ok := d.Token(common.HexToAddress("0xff970a61a04b1ca14834a43f5de4533ebddb5cc8"))
	s.Require().True(ok)
	s.Equal(6, tok.Decimals)
}

func (s *DeploymentSuite) TestRejectsUnlistedMarketToken() {
	_, err := ParseDeployment(deploymentTOML + `
[[markets]]
collateral = "0x0000000000000000000000000000000000000001"
index = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
`)
	s.Require().ErrorIs(err, ErrInvalidDeployment)
}

func (s *DeploymentSuite) TestRejectsBadAddress() {
	_, err := ParseDeployment(`
reader = "nope"
vault = "0x489ee077994B6658eAfA855C308275EAd8097C4A"
weth = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
`)
	s.Require().ErrorIs(err, ErrInvalidDeployment)
}

func (s *DeploymentSuite) TestMissingFile() {
	_, err := LoadDeployment(filepath.Join(s.T().TempDir(), "absent.toml"))
	s.Require().Error(err)
}

func TestDeployment(t *testing.T) {
	suite.Run(t, new(DeploymentSuite))
}
