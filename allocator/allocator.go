// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package allocator periodically hands freshly minted seigniorage to the boardroom
// through the treasury.
package allocator

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/health"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/metrics"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

var (
	logger = log.WithContext("pkg", "allocator")

	metricAllocations = metrics.LazyLoadCounterVec("allocator_allocation_count", []string{"result"})
)

// Ledger admits the allocation calls.
type Ledger interface {
	Execute(caller bicash.Address, clause *tx.Clause) (*tx.Receipt, error)
	View(fn func(st *state.State, blockCtx *xenv.BlockContext) error) error
}

type Options struct {
	Operator       bicash.Address
	Amount         *uint256.Int
	IntervalBlocks uint64
	// Tick is the period epochs are checked at.
	Tick       time.Duration
	MaxRetries uint
	RetryDelay time.Duration
	// Health, when set, records the outcome of every allocation.
	Health *health.Health
}

// Allocator submits one allocation per epoch of IntervalBlocks blocks.
type Allocator struct {
	ledger  Ledger
	options Options
	// epoch handled last, whether allocated or skipped
	lastEpoch uint64
	handled   bool
}

func New(ledger Ledger, options Options) *Allocator {
	if options.Tick <= 0 {
		options.Tick = time.Second
	}
	if options.MaxRetries == 0 {
		options.MaxRetries = 1
	}
	return &Allocator{ledger: ledger, options: options}
}

// Run checks for a new epoch every tick until ctx is done.
func (a *Allocator) Run(ctx context.Context) error {
	logger.Info("allocator started", "operator", a.options.Operator, "amount", a.options.Amount, "interval", a.options.IntervalBlocks)
	ticker := time.NewTicker(a.options.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping allocator......")
			return nil
		case <-ticker.C:
			if _, err := a.Step(ctx); err != nil {
				logger.Error("failed to allocate seigniorage", "err", err)
			}
		}
	}
}

// pending returns the current epoch and whether it still lacks an allocation.
func (a *Allocator) pending() (uint64, bool, error) {
	var (
		epoch     uint64
		allocated bool
	)
	err := a.ledger.View(func(st *state.State, blockCtx *xenv.BlockContext) error {
		epoch = uint64(blockCtx.Number) / a.options.IntervalBlocks

		board := builtin.Boardroom.Native(st, blockCtx, nil)
		latest, err := board.LatestSnapshotIndex()
		if err != nil {
			return err
		}
		if latest == 0 {
			return nil
		}
		snap, err := board.Snapshot(latest)
		if err != nil {
			return err
		}
		allocated = uint64(snap.Number)/a.options.IntervalBlocks == epoch
		return nil
	})
	if err != nil {
		return 0, false, errors.Wrap(err, "read boardroom")
	}
	if allocated || (a.handled && a.lastEpoch == epoch) {
		return epoch, false, nil
	}
	return epoch, true, nil
}

// Step allocates for the current epoch unless already done. The receipt is nil
// when there was nothing to do.
func (a *Allocator) Step(ctx context.Context) (*tx.Receipt, error) {
	epoch, ok, err := a.pending()
	if err != nil || !ok {
		return nil, err
	}

	clause, err := tx.NewClause(builtin.Treasury.Address).
		WithMethod("allocateSeigniorage").
		WithArgs(map[string]any{"amount": a.options.Amount})
	if err != nil {
		return nil, err
	}

	receipt, err := retry.DoWithData(
		func() (*tx.Receipt, error) {
			return a.ledger.Execute(a.options.Operator, clause)
		},
		retry.Context(ctx),
		retry.Attempts(a.options.MaxRetries),
		retry.Delay(a.options.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("allocation failed, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		metricAllocations().AddWithLabel(1, map[string]string{"result": "error"})
		a.reportFailure(err)
		return nil, err
	}

	a.lastEpoch, a.handled = epoch, true
	switch {
	case !receipt.Reverted:
		metricAllocations().AddWithLabel(1, map[string]string{"result": "success"})
		logger.Info("seigniorage allocated", "epoch", epoch, "block", receipt.BlockNumber, "amount", a.options.Amount)
		a.reportSuccess(epoch)
	case reverts.MatchReason(receipt.RevertReason, reverts.ErrNoStakers):
		metricAllocations().AddWithLabel(1, map[string]string{"result": "skipped"})
		logger.Info("no stakers, epoch skipped", "epoch", epoch)
		a.reportSuccess(epoch)
	default:
		metricAllocations().AddWithLabel(1, map[string]string{"result": "reverted"})
		logger.Warn("allocation reverted", "epoch", epoch, "reason", receipt.RevertReason)
		a.reportFailure(errors.New(receipt.RevertReason))
	}
	return receipt, nil
}

func (a *Allocator) reportSuccess(epoch uint64) {
	if a.options.Health != nil {
		a.options.Health.AllocationSucceeded(epoch)
	}
}

func (a *Allocator) reportFailure(err error) {
	if a.options.Health != nil {
		a.options.Health.AllocationFailed(err)
	}
}
