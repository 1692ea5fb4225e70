// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the node configuration from a YAML file.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/genesis"
)

// Config is the node configuration. Zero values fall back to Default.
type Config struct {
	DataDir   string          `yaml:"data-dir"`
	Log       LogConfig       `yaml:"log"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Boardroom BoardroomConfig `yaml:"boardroom"`
	// Genesis of the network, the dev network when omitted.
	Genesis   *genesis.Config `yaml:"genesis"`
	API       APIConfig       `yaml:"api"`
	Allocator AllocatorConfig `yaml:"allocator"`
	Admin     AdminConfig     `yaml:"admin"`
}

type LogConfig struct {
	Verbosity int  `yaml:"verbosity"`
	JSON      bool `yaml:"json"`
}

type LedgerConfig struct {
	// BlockInterval in seconds.
	BlockInterval uint64 `yaml:"block-interval"`
	// Cache of the main db in MB.
	Cache         int    `yaml:"cache"`
	// Persist keeps the databases on disk, in memory otherwise.
	Persist       bool   `yaml:"persist"`
}

// BoardroomConfig overrides the boardroom parameters of the genesis.
type BoardroomConfig struct {
	RewardScaleDecimals  *uint64 `yaml:"reward-scale-decimals"`
	WithdrawLockupBlocks *uint64 `yaml:"withdraw-lockup-blocks"`
}

type APIConfig struct {
	Addr              string        `yaml:"addr"`
	CORS              string        `yaml:"cors"`
	LogsLimit         uint64        `yaml:"logs-limit"`
	BacktraceLimit    uint64        `yaml:"backtrace-limit"`
	SnapshotCacheSize int           `yaml:"snapshot-cache-size"`
	EnableReqLogger   bool          `yaml:"enable-request-logger"`
	SlowQueries       time.Duration `yaml:"slow-queries-threshold"`
	Log5xxErrors      bool          `yaml:"log-5xx-errors"`
	EnableMetrics     bool          `yaml:"enable-metrics"`
}

// AdminConfig is the runtime control server, see package admin.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type AllocatorConfig struct {
	Enabled        bool           `yaml:"enabled"`
	// Operator submits the allocations, the genesis operator when zero.
	Operator       bicash.Address `yaml:"operator"`
	IntervalBlocks uint64         `yaml:"interval-blocks"`
	Amount         *uint256.Int   `yaml:"amount"`
	MaxRetries     uint           `yaml:"max-retries"`
	RetryDelay     time.Duration  `yaml:"retry-delay"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Verbosity: 3},
		Ledger: LedgerConfig{
			BlockInterval: bicash.BlockInterval,
			Cache:         512,
		},
		API: APIConfig{
			Addr:              "localhost:8669",
			LogsLimit:         1000,
			BacktraceLimit:    1000,
			SnapshotCacheSize: 1024,
		},
		Allocator: AllocatorConfig{
			IntervalBlocks: 360,
			Amount:         bicash.Tokens(1000),
			MaxRetries:     5,
			RetryDelay:     time.Second,
		},
		Admin: AdminConfig{
			Addr: "localhost:2113",
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as YAML.
func (c *Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Validate checks values the defaults cannot fix, filling the unset genesis values.
func (c *Config) Validate() error {
	if c.Ledger.BlockInterval == 0 {
		return errors.New("ledger.block-interval must be positive")
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 9 {
		return errors.New("log.verbosity must be within [0, 9]")
	}
	if c.API.SnapshotCacheSize <= 0 {
		return errors.New("api.snapshot-cache-size must be positive")
	}
	if c.Allocator.Enabled {
		if c.Allocator.IntervalBlocks == 0 {
			return errors.New("allocator.interval-blocks must be positive")
		}
		if c.Allocator.Amount == nil || c.Allocator.Amount.IsZero() {
			return errors.New("allocator.amount must be positive")
		}
		if c.Allocator.MaxRetries == 0 {
			return errors.New("allocator.max-retries must be positive")
		}
	}
	if c.Admin.Enabled && c.Admin.Addr == "" {
		return errors.New("admin.addr required")
	}
	if c.Genesis != nil {
		c.Genesis.Normalize()
		if err := c.GenesisConfig().Validate(); err != nil {
			return errors.WithMessage(err, "genesis")
		}
	}
	return nil
}

// GenesisConfig returns the genesis to build, with the boardroom overrides applied.
func (c *Config) GenesisConfig() *genesis.Config {
	var gc genesis.Config
	if c.Genesis != nil {
		gc = *c.Genesis
		gc.Accounts = append([]genesis.Account(nil), c.Genesis.Accounts...)
	} else {
		gc = *genesis.DevConfig()
	}
	if v := c.Boardroom.RewardScaleDecimals; v != nil {
		gc.RewardScaleDecimals = *v
	}
	if v := c.Boardroom.WithdrawLockupBlocks; v != nil {
		gc.WithdrawLockupBlocks = *v
	}
	gc.Normalize()
	return &gc
}

// AllocatorOperator returns the account submitting allocations.
func (c *Config) AllocatorOperator() bicash.Address {
	if !c.Allocator.Operator.IsZero() {
		return c.Allocator.Operator
	}
	return c.GenesisConfig().Operator
}
