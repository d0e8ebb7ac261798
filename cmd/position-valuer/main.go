package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/alexflint/go-arg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/common/config"
	cerrors "github.com/mcdexio/perp-position-engine/common/errors"
	"github.com/mcdexio/perp-position-engine/common/logging"
	database "github.com/mcdexio/perp-position-engine/database/db"
	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/mcdexio/perp-position-engine/perp"
	"github.com/mcdexio/perp-position-engine/reader"
	"github.com/mcdexio/perp-position-engine/valuer"
)

type Args struct {
	RPC             string `arg:"--rpc,env:RPC_URL" help:"json-rpc endpoint"`
	Deployment      string `arg:"--deployment,env:DEPLOYMENT_FILE" default:"deployment.toml" help:"deployment toml file"`
	Account         string `arg:"--account,required" help:"account address"`
	Record          bool   `arg:"--record" help:"journal valuations to DB_ARGS"`
	DisplayDecimals int    `arg:"--display-decimals" default:"2" help:"fraction digits of usd amounts"`
}

func (Args) Description() string {
	return "values the open positions of an account"
}

func main() {
	name := "position-valuer"
	// Initialize logger.
	logging.Initialize(name)
	defer logging.Finalize()
	logger := logging.NewLoggerTag(name)
	cerrors.Initialize(logger)
	defer cerrors.Catch()

	args := new(Args)
	p := arg.MustParse(args)
	if !common.IsHexAddress(args.Account) {
		p.Fail("invalid --account")
	}
	if args.RPC == "" {
		p.Fail("--rpc or RPC_URL is required")
	}
	logger.Info("using config %+v", args)

	deployment, err := config.LoadDeployment(args.Deployment)
	if err != nil {
		logger.Critical("fail to load deployment: %s", err)
	}
	client, err := reader.NewClient(logging.NewLoggerTag("reader"), args.RPC, common.HexToAddress(deployment.Reader))
	if err != nil {
		logger.Critical("fail to create reader client: %s", err)
	}
	defer client.Close()

	var recorder valuer.Recorder
	if args.Record {
		database.Initialize()
		defer database.Finalize()
		recorder = database.NewSnapshotRecorder(database.GetDB())
	}

	v, err := valuer.New(logging.NewLoggerTag("valuer"), client, perp.NewCalculator(perp.DefaultParams()), deployment, recorder)
	if err != nil {
		logger.Critical("fail to create valuer: %s", err)
	}
	account := common.HexToAddress(args.Account)
	valuations, err := v.ValueAccount(context.Background(), account)
	if err != nil {
		logger.Error("fail to value %s: %s", account.Hex(), err)
		return
	}
	printValuations(deployment, valuations, args.DisplayDecimals)
}

func printValuations(deployment *config.Deployment, valuations []*perp.Valuation, decimals int) {
	usd := func(v *big.Int) string {
		return fixed.Format(v, fixed.USDDecimals, decimals)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MARKET\tSIDE\tSIZE\tCOLLATERAL\tENTRY\tMARK\tPNL\tNET VALUE\tLEVERAGE\tLIQ. PRICE\tLOW")
	for _, v := range valuations {
		p := v.Position
		side := "SHORT"
		if p.IsLong {
			side = "LONG"
		}
		pnl := usd(v.PendingDelta)
		if v.PendingDelta != nil && !v.HasProfit && v.PendingDelta.Sign() > 0 {
			pnl = "-" + pnl
		}
		fmt.Fprintf(w, "%s/%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			symbol(deployment, p.IndexToken), symbol(deployment, p.CollateralToken), side,
			usd(p.Size), usd(p.Collateral), usd(p.AveragePrice), usd(p.MarkPrice),
			pnl, usd(v.NetValue), fixed.FormatLeverage(v.Leverage), usd(v.LiquidationPrice),
			v.HasLowCollateral)
	}
	w.Flush() //nolint:errcheck
}

func symbol(deployment *config.Deployment, addr common.Address) string {
	if t, ok := deployment.Token(addr); ok && t.Symbol != "" {
		return t.Symbol
	}
	return addr.Hex()
}
