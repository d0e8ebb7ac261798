package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/api"
	"github.com/mcdexio/perp-position-engine/common/config"
	cerrors "github.com/mcdexio/perp-position-engine/common/errors"
	"github.com/mcdexio/perp-position-engine/common/logging"
	database "github.com/mcdexio/perp-position-engine/database/db"
	"github.com/mcdexio/perp-position-engine/database/models/valuation"
	"github.com/mcdexio/perp-position-engine/env"
	"github.com/mcdexio/perp-position-engine/perp"
	"github.com/mcdexio/perp-position-engine/reader"
	"github.com/mcdexio/perp-position-engine/types"
	"github.com/mcdexio/perp-position-engine/valuer"
	"golang.org/x/sync/errgroup"
)

func main() {
	name := "position-engine-api"
	// Initialize logger.
	logging.Initialize(name)
	defer logging.Finalize()
	logger := logging.NewLoggerTag(name)

	// Setup panic handler.
	cerrors.Initialize(logger)
	defer cerrors.Catch()

	backgroundCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go WaitExitSignal(stop, logger)
	group, ctx := errgroup.WithContext(backgroundCtx)

	calc := perp.NewCalculator(perp.DefaultParams())
	var opts []api.Option

	useDB := config.GetString("DB_ARGS", "") != ""
	if useDB {
		database.Initialize()
		defer database.Finalize()
		if env.ResetDatabase() {
			database.Reset(database.GetDB(), types.Valuer, true)
		}
		var dao database.DAO
		opts = append(opts, api.WithSnapshots(
			func(ctx context.Context, account common.Address) ([]*valuation.PositionSnapshot, error) {
				return dao.LatestSnapshots(database.GetDB().WithContext(ctx), account)
			}))
	}

	if rpcURL := config.GetString("RPC_URL", ""); rpcURL != "" {
		deployment, err := config.LoadDeployment(config.GetString("DEPLOYMENT_FILE", "deployment.toml"))
		if err != nil {
			logger.Critical("fail to load deployment: %s", err)
		}
		client, err := reader.NewClient(logging.NewLoggerTag("reader"), rpcURL, common.HexToAddress(deployment.Reader))
		if err != nil {
			logger.Critical("fail to create reader client: %s", err)
		}
		defer client.Close()

		var recorder valuer.Recorder
		if useDB && env.RecordSnapshots() {
			recorder = database.NewSnapshotRecorder(database.GetDB())
		}
		v, err := valuer.New(logging.NewLoggerTag("valuer"), client, calc, deployment, recorder)
		if err != nil {
			logger.Critical("fail to create valuer: %s", err)
		}
		opts = append(opts, api.WithValuer(v))
	} else {
		logger.Warn("RPC_URL is empty, account positions are disabled")
	}

	server := api.NewServer(ctx, logger, config.GetString("API_ADDR", ":9487"), calc, opts...)
	group.Go(func() error {
		return server.Run()
	})

	if err := group.Wait(); err != nil {
		logger.Error("service stopped: %s", err)
	}
	logger.Info("%s stopped", name)
}

func WaitExitSignal(ctxStop context.CancelFunc, logger logging.Logger) {
	defer cerrors.CatchWithLogger(logger)
	var exitSignal = make(chan os.Signal, 1)
	signal.Notify(exitSignal, syscall.SIGTERM)
	signal.Notify(exitSignal, syscall.SIGINT)

	sig := <-exitSignal
	logger.Info("caught sig: %+v, Stopping...", sig)
	ctxStop()
}
