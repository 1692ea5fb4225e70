// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boardroom

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/builtin/roles"
)

// Member returns the stored record of staker, not settled.
func (b *Boardroom) Member(staker bicash.Address) (*Member, error) {
	return b.storage.getMember(staker)
}

func (b *Boardroom) StakedBalanceOf(staker bicash.Address) (*uint256.Int, error) {
	m, err := b.storage.getMember(staker)
	if err != nil {
		return nil, err
	}
	return m.Balance, nil
}

// ClaimableOf returns the reward staker would receive by claiming now.
func (b *Boardroom) ClaimableOf(staker bicash.Address) (*uint256.Int, error) {
	m, err := b.settle(staker)
	if err != nil {
		return nil, err
	}
	return m.RewardEarned, nil
}

func (b *Boardroom) withdrawableAt(m *Member) (uint64, error) {
	lockup, err := WithdrawLockupBlocks.Get(b.context)
	if err != nil {
		return 0, err
	}
	if lockup == 0 {
		return 0, nil
	}
	return uint64(m.EpochTimerStart) + lockup, nil
}

// WithdrawableAt returns the first block staker may withdraw in.
func (b *Boardroom) WithdrawableAt(staker bicash.Address) (uint64, error) {
	m, err := b.storage.getMember(staker)
	if err != nil {
		return 0, err
	}
	return b.withdrawableAt(m)
}

// CanWithdraw reports whether staker may withdraw in the current block.
func (b *Boardroom) CanWithdraw(staker bicash.Address) (bool, error) {
	at, err := b.WithdrawableAt(staker)
	if err != nil {
		return false, err
	}
	return uint64(b.blockCtx.Number) >= at, nil
}

func (b *Boardroom) TotalStaked() (*uint256.Int, error) {
	return b.storage.totalStaked.Get()
}

func (b *Boardroom) TotalAllocated() (*uint256.Int, error) {
	return b.storage.totalAllocated.Get()
}

func (b *Boardroom) TotalPaid() (*uint256.Int, error) {
	return b.storage.totalPaid.Get()
}

func (b *Boardroom) LatestSnapshotIndex() (uint64, error) {
	return b.storage.getLatestSnapshotIndex()
}

// Snapshot returns the snapshot at index. Indexes beyond the latest are rejected.
func (b *Boardroom) Snapshot(index uint64) (*Snapshot, error) {
	latest, err := b.storage.getLatestSnapshotIndex()
	if err != nil {
		return nil, err
	}
	if index > latest {
		return nil, reverts.ErrInvalidArgument.Withf("snapshot %d not found, latest is %d", index, latest)
	}
	return b.storage.getSnapshot(index)
}

// RewardPerShare returns the cumulative reward-per-share of the latest snapshot.
func (b *Boardroom) RewardPerShare() (*uint256.Int, error) {
	snap, err := b.storage.getLatestSnapshot()
	if err != nil {
		return nil, err
	}
	return snap.RewardPerShare, nil
}

func (b *Boardroom) RewardScale() (*uint256.Int, error) {
	return b.storage.getRewardScale()
}

func (b *Boardroom) WithdrawLockup() (uint64, error) {
	return WithdrawLockupBlocks.Get(b.context)
}

func (b *Boardroom) Operator() (bicash.Address, error) {
	return b.roles.Holder(roles.Operator)
}

func (b *Boardroom) Owner() (bicash.Address, error) {
	return b.roles.Holder(roles.Owner)
}
