// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/config"
	"github.com/BicashFinance/bicash-protocol/genesis"
	"github.com/BicashFinance/bicash-protocol/test/testledger"
)

// runConfig runs the app with args and returns the config its action loaded.
func runConfig(t *testing.T, args ...string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	app := newApp()
	app.Action = func(ctx *cli.Context) error {
		cfg, err = loadConfig(ctx)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"bicash"}, args...)))
	return cfg, err
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := runConfig(t)
	require.NoError(t, err)
	assert.Equal(t, defaultDataDir(), cfg.DataDir)
	assert.False(t, cfg.Ledger.Persist)
	assert.Equal(t, "localhost:8669", cfg.API.Addr)
	assert.False(t, cfg.Allocator.Enabled)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bicash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data-dir: /var/lib/bicash
api:
  addr: 0.0.0.0:8080
  cors: "*"
allocator:
  interval-blocks: 100
`), 0600))

	cfg, err := runConfig(t, "--config", path, "--api-addr", "localhost:9000", "--enable-allocator", "--verbosity", "5")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/bicash", cfg.DataDir)
	assert.Equal(t, "localhost:9000", cfg.API.Addr)
	assert.Equal(t, "*", cfg.API.CORS)
	assert.True(t, cfg.Allocator.Enabled)
	assert.Equal(t, uint64(100), cfg.Allocator.IntervalBlocks)
	assert.Equal(t, 5, cfg.Log.Verbosity)

	cfg, err = runConfig(t, "--config", path, "--data-dir", "/tmp/bicash", "--allocator-interval", "7")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bicash", cfg.DataDir)
	assert.Equal(t, uint64(7), cfg.Allocator.IntervalBlocks)
}

func TestLoadConfigRejects(t *testing.T) {
	_, err := runConfig(t, "--block-interval", "0")
	assert.Error(t, err)

	_, err = runConfig(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 128, normalizeCacheSize(1))
	assert.LessOrEqual(t, normalizeCacheSize(1<<30), 1<<30)
}

func TestPersistedLedger(t *testing.T) {
	dataDir := t.TempDir()
	cfg, err := runConfig(t, "--persist", "--data-dir", dataDir, "--cache", "128")
	require.NoError(t, err)

	l, gene, dbs, err := openLedger(cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dbs.instanceDir, dataDir))
	assert.Equal(t, gene.ID(), l.GenesisID())
	dbs.Close()

	// reopening finds the same instance
	l, _, dbs, err = openLedger(cfg)
	require.NoError(t, err)
	defer dbs.Close()
	assert.Equal(t, gene.ID(), l.GenesisID())

	var out bytes.Buffer
	require.NoError(t, verifyLedger(context.Background(), l, &out))
}

func TestVerifyLedger(t *testing.T) {
	l := testledger.New(t)
	accs := genesis.DevAccounts()
	l.Stake(accs[1], 10)
	l.Stake(accs[2], 30)
	l.Clock.Advance(2)
	l.Allocate(100)
	l.Clock.Advance(2)
	l.Allocate(50)
	l.MustCall(accs[1], builtin.Boardroom.Address, "claimReward", nil)
	l.MustCall(accs[2], builtin.Boardroom.Address, "withdraw", map[string]any{"amount": uint256.NewInt(1)})

	var out bytes.Buffer
	require.NoError(t, verifyLedger(context.Background(), l.Ledger, &out))
	assert.Contains(t, out.String(), "verified 3 snapshots and 2 members")

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	assert.Error(t, verifyLedger(ctx, l.Ledger, &out))
}

func TestJSONDiff(t *testing.T) {
	diff := jsonDiff(
		totals{Staked: uint256.NewInt(10), Pending: uint256.NewInt(1), Paid: uint256.NewInt(0)},
		totals{Staked: uint256.NewInt(11), Pending: uint256.NewInt(1), Paid: uint256.NewInt(0)},
	)
	assert.Contains(t, diff, "--- Expected")
	assert.Contains(t, diff, "+++ Actual")
	assert.Contains(t, diff, `-  "staked": "10",`)
	assert.Contains(t, diff, `+  "staked": "11",`)
}
