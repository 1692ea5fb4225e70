// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/BicashFinance/bicash-protocol/admin"
	"github.com/BicashFinance/bicash-protocol/allocator"
	"github.com/BicashFinance/bicash-protocol/api"
	"github.com/BicashFinance/bicash-protocol/api/node"
	"github.com/BicashFinance/bicash-protocol/health"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

var ledgerFlags = []cli.Flag{
	configFlag,
	dataDirFlag,
	persistFlag,
	cacheFlag,
	blockIntervalFlag,
	verbosityFlag,
	jsonLogsFlag,
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Bicash"
	app.Usage = "Seigniorage boardroom ledger of the Bicash protocol"
	app.Copyright = "2018 The VeChainThor developers"
	app.Flags = append(append([]cli.Flag{}, ledgerFlags...),
		apiAddrFlag,
		apiCorsFlag,
		apiBacktraceLimitFlag,
		apiLogsLimitFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		enableMetricsFlag,
		enableAllocatorFlag,
		allocatorIntervalFlag,
		enableAdminFlag,
		adminAddrFlag,
		skipNTPFlag,
	)
	app.Action = defaultAction
	app.Commands = []cli.Command{
		{
			Name:   "verify",
			Usage:  "verify the boardroom accounting of a persisted ledger",
			Flags:  ledgerFlags,
			Action: verifyAction,
		},
		{
			Name:   "dump-config",
			Usage:  "print the effective configuration",
			Flags:  ledgerFlags,
			Action: dumpConfigAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	logLevel := initLogger(cfg)
	if cfg.API.EnableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	l, gene, dbs, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer dbs.Close()

	if !ctx.Bool(skipNTPFlag.Name) {
		go checkClockOffset(cfg.Ledger.BlockInterval)
	}

	var reqLogger atomic.Bool
	reqLogger.Store(cfg.API.EnableReqLogger)
	handler, closeSubs, err := api.New(l, api.Options{
		AllowedOrigins:    cfg.API.CORS,
		BacktraceLimit:    cfg.API.BacktraceLimit,
		LogsLimit:         cfg.API.LogsLimit,
		SnapshotCacheSize: cfg.API.SnapshotCacheSize,
		EnableReqLogger:   &reqLogger,
		SlowQueries:       cfg.API.SlowQueries,
		Log5xxErrors:      cfg.API.Log5xxErrors,
		EnableMetrics:     cfg.API.EnableMetrics,
		Info: node.Info{
			Version:       fullVersion(),
			GenesisID:     gene.ID(),
			LaunchTime:    gene.Timestamp(),
			BlockInterval: cfg.Ledger.BlockInterval,
		},
	})
	if err != nil {
		return err
	}

	listener, apiURL, err := listenAPI(cfg.API.Addr)
	if err != nil {
		return err
	}
	srv := newAPIServer(handler)

	// unhealthy after three failed epochs in a row
	allocHealth := health.New(3)
	var adminURL string
	if cfg.Admin.Enabled {
		url, stopAdmin, err := admin.StartServer(cfg.Admin.Addr, admin.HTTPHandler(logLevel, &reqLogger, allocHealth))
		if err != nil {
			listener.Close()
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stopAdmin() }()
		adminURL = url
	}

	printStartupMessage(gene, l.Head(), cfg, dbs.instanceDir, apiURL, adminURL)

	group, groupCtx := errgroup.WithContext(handleExitSignal())
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve API")
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("stopping API server...")
		closeSubs()
		return srv.Shutdown(context.Background())
	})
	if cfg.Allocator.Enabled {
		alloc := allocator.New(l, allocator.Options{
			Operator:       cfg.AllocatorOperator(),
			Amount:         cfg.Allocator.Amount,
			IntervalBlocks: cfg.Allocator.IntervalBlocks,
			MaxRetries:     cfg.Allocator.MaxRetries,
			RetryDelay:     cfg.Allocator.RetryDelay,
			Health:         allocHealth,
		})
		group.Go(func() error {
			return alloc.Run(groupCtx)
		})
	}
	return group.Wait()
}

func verifyAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(cfg)
	if !cfg.Ledger.Persist {
		return errors.New("nothing to verify in memory, use -" + persistFlag.Name)
	}

	l, _, dbs, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer dbs.Close()

	return verifyLedger(handleExitSignal(), l, os.Stdout)
}

func dumpConfigAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return cfg.Encode(os.Stdout)
}
