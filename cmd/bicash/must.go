// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/BicashFinance/bicash-protocol/config"
	"github.com/BicashFinance/bicash-protocol/genesis"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/logdb"
	"github.com/BicashFinance/bicash-protocol/lvldb"
)

// loadConfig reads the config file, if any, and applies the flags set on the command line.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet(dataDirFlag.Name) || cfg.DataDir == "" {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(persistFlag.Name) {
		cfg.Ledger.Persist = ctx.Bool(persistFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.Ledger.Cache = ctx.Int(cacheFlag.Name)
	}
	if ctx.IsSet(blockIntervalFlag.Name) {
		cfg.Ledger.BlockInterval = ctx.Uint64(blockIntervalFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(jsonLogsFlag.Name) {
		cfg.Log.JSON = ctx.Bool(jsonLogsFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		cfg.API.Addr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.API.CORS = ctx.String(apiCorsFlag.Name)
	}
	if ctx.IsSet(apiBacktraceLimitFlag.Name) {
		cfg.API.BacktraceLimit = ctx.Uint64(apiBacktraceLimitFlag.Name)
	}
	if ctx.IsSet(apiLogsLimitFlag.Name) {
		cfg.API.LogsLimit = ctx.Uint64(apiLogsLimitFlag.Name)
	}
	if ctx.IsSet(enableAPILogsFlag.Name) {
		cfg.API.EnableReqLogger = ctx.Bool(enableAPILogsFlag.Name)
	}
	if ctx.IsSet(apiSlowQueriesThresholdFlag.Name) {
		cfg.API.SlowQueries = ctx.Duration(apiSlowQueriesThresholdFlag.Name)
	}
	if ctx.IsSet(apiLog5xxErrorsFlag.Name) {
		cfg.API.Log5xxErrors = ctx.Bool(apiLog5xxErrorsFlag.Name)
	}
	if ctx.IsSet(enableMetricsFlag.Name) {
		cfg.API.EnableMetrics = ctx.Bool(enableMetricsFlag.Name)
	}
	if ctx.IsSet(enableAllocatorFlag.Name) {
		cfg.Allocator.Enabled = ctx.Bool(enableAllocatorFlag.Name)
	}
	if ctx.IsSet(allocatorIntervalFlag.Name) {
		cfg.Allocator.IntervalBlocks = ctx.Uint64(allocatorIntervalFlag.Name)
	}
	if ctx.IsSet(enableAdminFlag.Name) {
		cfg.Admin.Enabled = ctx.Bool(enableAdminFlag.Name)
	}
	if ctx.IsSet(adminAddrFlag.Name) {
		cfg.Admin.Addr = ctx.String(adminAddrFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) *slog.LevelVar {
	return log.Init(os.Stderr, cfg.Log.Verbosity, cfg.Log.JSON)
}

func makeInstanceDir(dataDir string, gene *genesis.Genesis) (string, error) {
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(cacheMB int, instanceDir string) (*lvldb.LevelDB, error) {
	cacheMB = normalizeCacheSize(cacheMB)
	logger.Debug("cache size(MB)", "size", cacheMB)

	// ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openLogDB(instanceDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(instanceDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", dir)
	}
	return db, nil
}

// databases are the storage of a ledger, on disk or in memory.
type databases struct {
	main        *lvldb.LevelDB
	logs        *logdb.LogDB
	instanceDir string
}

func openDatabases(cfg *config.Config, gene *genesis.Genesis) (*databases, error) {
	if !cfg.Ledger.Persist {
		main, err := lvldb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open main database")
		}
		logs, err := logdb.NewMem()
		if err != nil {
			main.Close()
			return nil, errors.Wrap(err, "open log database")
		}
		return &databases{main, logs, "Memory"}, nil
	}

	instanceDir, err := makeInstanceDir(cfg.DataDir, gene)
	if err != nil {
		return nil, err
	}
	main, err := openMainDB(cfg.Ledger.Cache, instanceDir)
	if err != nil {
		return nil, err
	}
	logs, err := openLogDB(instanceDir)
	if err != nil {
		main.Close()
		return nil, err
	}
	return &databases{main, logs, instanceDir}, nil
}

func (d *databases) Close() {
	logger.Info("closing log database...")
	if err := d.logs.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// openLedger builds the genesis from cfg and opens the ledger over its databases.
func openLedger(cfg *config.Config) (*ledger.Ledger, *genesis.Genesis, *databases, error) {
	gene, err := genesis.New(cfg.GenesisConfig())
	if err != nil {
		return nil, nil, nil, errors.WithMessage(err, "genesis")
	}
	dbs, err := openDatabases(cfg, gene)
	if err != nil {
		return nil, nil, nil, err
	}
	l, err := ledger.New(dbs.main, dbs.logs, gene, ledger.Options{BlockInterval: cfg.Ledger.BlockInterval})
	if err != nil {
		dbs.Close()
		return nil, nil, nil, err
	}
	return l, gene, dbs, nil
}

func listenAPI(addr string) (net.Listener, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	return listener, "http://" + listener.Addr().String() + "/", nil
}

func newAPIServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second * 10,
	}
}

func checkClockOffset(blockInterval uint64) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset.Abs() > time.Duration(blockInterval)*time.Second/2 {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(gene *genesis.Genesis, head ledger.Head, cfg *config.Config, instanceDir, apiURL, adminURL string) {
	if adminURL == "" {
		adminURL = "disabled"
	}
	allocator := "disabled"
	if cfg.Allocator.Enabled {
		allocator = fmt.Sprintf("every %v blocks, operator %v", cfg.Allocator.IntervalBlocks, cfg.AllocatorOperator())
	}
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Head         [ #%v block %v @%v ]
    Allocator    [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Admin portal [ %v ]
`,
		"Bicash/"+fullVersion(),
		gene.ID(), gene.Name(),
		head.Seq, head.BlockNumber, time.Unix(int64(head.BlockTime), 0),
		allocator,
		instanceDir,
		apiURL,
		adminURL)
}
