// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis deploys the protocol contracts into an empty ledger.
package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

// Genesis to build the genesis state.
type Genesis struct {
	builder *Builder
	id      bicash.Bytes32
	name    string
}

// New creates the genesis described by cfg.
func New(cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis config")
	}
	id, err := cfg.id()
	if err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(cfg.Timestamp).
		State(func(st *state.State, blockCtx *xenv.BlockContext) error {
			if err := builtin.Cash.Native(st, nil).Initialize("Cash", cfg.Owner); err != nil {
				return err
			}
			if err := builtin.Share.Native(st, nil).Initialize("Share", cfg.Owner); err != nil {
				return err
			}
			// the treasury is the only allocator of the boardroom
			if err := builtin.Boardroom.Native(st, blockCtx, nil).Initialize(
				cfg.Owner,
				builtin.Treasury.Address,
				cfg.RewardScaleDecimals,
				cfg.WithdrawLockupBlocks,
			); err != nil {
				return err
			}
			return builtin.Treasury.Native(st, blockCtx, nil).Initialize(cfg.Owner, cfg.Operator)
		}).
		Call(setMinter(builtin.Cash.Address, builtin.Treasury.Address, cfg.TreasuryMintCap), cfg.Owner)

	cashSum, shareSum := new(uint256.Int), new(uint256.Int)
	for _, acc := range cfg.Accounts {
		if _, overflow := cashSum.AddOverflow(cashSum, acc.Cash); overflow {
			return nil, errors.New("genesis cash overflows")
		}
		if _, overflow := shareSum.AddOverflow(shareSum, acc.Share); overflow {
			return nil, errors.New("genesis share overflows")
		}
	}
	// the owner mints the allocations, drawing its cap down to zero
	for _, tk := range []struct {
		addr bicash.Address
		sum  *uint256.Int
		of   func(Account) *uint256.Int
	}{
		{builtin.Cash.Address, cashSum, func(acc Account) *uint256.Int { return acc.Cash }},
		{builtin.Share.Address, shareSum, func(acc Account) *uint256.Int { return acc.Share }},
	} {
		if tk.sum.IsZero() {
			continue
		}
		builder.Call(setMinter(tk.addr, cfg.Owner, tk.sum), cfg.Owner)
		for _, acc := range cfg.Accounts {
			if amount := tk.of(acc); !amount.IsZero() {
				builder.Call(tx.NewClause(tk.addr).WithMethod("mint").MustWithArgs(map[string]any{
					"to":     acc.Address,
					"amount": amount,
				}), cfg.Owner)
			}
		}
	}

	name := cfg.Name
	if name == "" {
		name = "custom"
	}
	return &Genesis{builder, id, name}, nil
}

func setMinter(token, minter bicash.Address, limit *uint256.Int) *tx.Clause {
	return tx.NewClause(token).WithMethod("setMinter").MustWithArgs(map[string]any{
		"minter": minter,
		"cap":    limit,
	})
}

// Build build the genesis state.
func (g *Genesis) Build(stater *state.Stater) (*Result, error) {
	return g.builder.Build(stater)
}

// Timestamp returns the time of block zero.
func (g *Genesis) Timestamp() uint64 {
	return g.builder.timestamp
}

// ID returns the genesis id.
func (g *Genesis) ID() bicash.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}
