// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/builtin/boardroom"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/logdb"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

// totals are the boardroom aggregates recomputed from its members.
type totals struct {
	Staked  *uint256.Int `json:"staked"`
	Pending *uint256.Int `json:"pending"`
	Paid    *uint256.Int `json:"paid"`
}

// stakers lists every address that ever staked, from the event logs.
func stakers(ctx context.Context, logDB *logdb.LogDB) ([]bicash.Address, error) {
	events, err := logDB.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{
			Address: &builtin.Boardroom.Address,
			Topics:  [5]*bicash.Bytes32{&boardroom.EventStaked},
		}},
	})
	if err != nil {
		return nil, err
	}
	seen := make(map[bicash.Address]struct{})
	var addrs []bicash.Address
	for _, ev := range events {
		if ev.Topics[1] == nil {
			continue
		}
		addr := bicash.BytesToAddress(ev.Topics[1][12:])
		if _, ok := seen[addr]; !ok {
			seen[addr] = struct{}{}
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].String() < addrs[j].String() })
	return addrs, nil
}

// verifyLedger checks the boardroom accounting at the head. Rewards owed to
// members, paid or pending, must be covered by the allocations.
func verifyLedger(ctx context.Context, l *ledger.Ledger, out io.Writer) error {
	fmt.Fprintln(out, ">> Verifying ledger <<")

	members, err := stakers(ctx, l.LogDB())
	if err != nil {
		return errors.WithMessage(err, "load stakers")
	}

	return l.View(func(st *state.State, blockCtx *xenv.BlockContext) error {
		board := builtin.Boardroom.Native(st, blockCtx, nil)
		latest, err := board.LatestSnapshotIndex()
		if err != nil {
			return err
		}

		bar := pb.New64(int64(latest) + 1 + int64(len(members))).
			Set64(0).
			SetMaxWidth(90)
		bar.Output = out
		bar.Start()
		defer func() { bar.NotPrint = true }()

		prev, err := board.Snapshot(0)
		if err != nil {
			return err
		}
		bar.Increment()
		for i := uint64(1); i <= latest; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := board.Snapshot(i)
			if err != nil {
				return err
			}
			if snap.RewardPerShare.Lt(prev.RewardPerShare) {
				fmt.Fprintln(out, "\nDecreasing reward per share")
				fmt.Fprint(out, spew.Sdump(prev, snap))
				return errors.Errorf("snapshot %v: reward per share decreased", i)
			}
			prev = snap
			bar.Increment()
		}

		actual := totals{Staked: new(uint256.Int), Pending: new(uint256.Int)}
		for _, staker := range members {
			m, err := board.Member(staker)
			if err != nil {
				return err
			}
			if m.LastSnapshotIndex > latest {
				fmt.Fprintln(out, "\nMember ahead of snapshots")
				fmt.Fprint(out, spew.Sdump(staker, m))
				return errors.Errorf("member %v: settled beyond snapshot %v", staker, latest)
			}
			claimable, err := board.ClaimableOf(staker)
			if err != nil {
				return err
			}
			actual.Staked.Add(actual.Staked, m.Balance)
			actual.Pending.Add(actual.Pending, claimable)
			bar.Increment()
		}
		bar.Finish()

		expected := totals{Pending: actual.Pending}
		if expected.Staked, err = board.TotalStaked(); err != nil {
			return err
		}
		if actual.Paid, err = board.TotalPaid(); err != nil {
			return err
		}
		expected.Paid = actual.Paid
		if !expected.Staked.Eq(actual.Staked) {
			fmt.Fprintln(out, "\nDiff boardroom totals")
			fmt.Fprintln(out, jsonDiff(expected, actual))
			return errors.New("staked balances do not sum to the total staked")
		}

		allocated, err := board.TotalAllocated()
		if err != nil {
			return err
		}
		owed, overflow := new(uint256.Int).AddOverflow(actual.Pending, actual.Paid)
		if overflow || owed.Gt(allocated) {
			fmt.Fprintln(out, "\nRewards exceed allocations")
			fmt.Fprint(out, spew.Sdump(actual, allocated))
			return errors.New("pending and paid rewards exceed the allocated rewards")
		}

		fmt.Fprintf(out, "verified %v snapshots and %v members\n", latest+1, len(members))
		return nil
	})
}

func jsonDiff(expected, actual any) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	return diff
}
