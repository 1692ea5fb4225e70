// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boardroom

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
)

var (
	slotMembers             = nameToSlot("members")
	slotSnapshots           = nameToSlot("snapshots")
	slotLatestSnapshotIndex = nameToSlot("latest-snapshot-index")
	slotTotalStaked         = nameToSlot("total-staked")
	slotTotalAllocated      = nameToSlot("total-allocated")
	slotTotalPaid           = nameToSlot("total-paid")
)

// params
var (
	RewardScaleDecimals  = solidity.NewConfigVariable("reward-scale-decimals", bicash.DefaultRewardScaleDecimals)
	WithdrawLockupBlocks = solidity.NewConfigVariable("withdraw-lockup-blocks", 0)
)

func nameToSlot(name string) bicash.Bytes32 {
	return bicash.BytesToBytes32([]byte(name))
}

// storage represents the root storage of the boardroom contract.
type storage struct {
	context             *solidity.Context
	members             *solidity.Mapping[bicash.Address, *Member]
	snapshots           *solidity.Mapping[solidity.Uint64Key, *Snapshot]
	latestSnapshotIndex *solidity.Value[uint64]
	totalStaked         *solidity.Uint256
	totalAllocated      *solidity.Uint256
	totalPaid           *solidity.Uint256
}

func newStorage(context *solidity.Context) *storage {
	return &storage{
		context:             context,
		members:             solidity.NewMapping[bicash.Address, *Member](context, slotMembers),
		snapshots:           solidity.NewMapping[solidity.Uint64Key, *Snapshot](context, slotSnapshots),
		latestSnapshotIndex: solidity.NewValue[uint64](context, slotLatestSnapshotIndex),
		totalStaked:         solidity.NewUint256(context, slotTotalStaked),
		totalAllocated:      solidity.NewUint256(context, slotTotalAllocated),
		totalPaid:           solidity.NewUint256(context, slotTotalPaid),
	}
}

func (s *storage) getMember(staker bicash.Address) (*Member, error) {
	m, err := s.members.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get member")
	}
	return m.normalize(), nil
}

func (s *storage) setMember(staker bicash.Address, m *Member) error {
	if err := s.members.Set(staker, m); err != nil {
		return errors.Wrap(err, "failed to set member")
	}
	return nil
}

func (s *storage) getSnapshot(index uint64) (*Snapshot, error) {
	snap, err := s.snapshots.Get(solidity.Uint64Key(index))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get snapshot")
	}
	snap.Index = index
	return snap.normalize(), nil
}

// appendSnapshot stores snap as the new latest snapshot.
func (s *storage) appendSnapshot(snap *Snapshot) error {
	latest, err := s.getLatestSnapshotIndex()
	if err != nil {
		return err
	}
	snap.Index = latest + 1
	if err := s.snapshots.Set(solidity.Uint64Key(snap.Index), snap); err != nil {
		return errors.Wrap(err, "failed to set snapshot")
	}
	if err := s.latestSnapshotIndex.Set(snap.Index); err != nil {
		return errors.Wrap(err, "failed to set latest snapshot index")
	}
	return nil
}

func (s *storage) getLatestSnapshotIndex() (uint64, error) {
	index, err := s.latestSnapshotIndex.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get latest snapshot index")
	}
	return index, nil
}

func (s *storage) getLatestSnapshot() (*Snapshot, error) {
	index, err := s.getLatestSnapshotIndex()
	if err != nil {
		return nil, err
	}
	return s.getSnapshot(index)
}

func (s *storage) getRewardScale() (*uint256.Int, error) {
	decimals, err := RewardScaleDecimals.Get(s.context)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward scale")
	}
	return bicash.Pow10(decimals), nil
}
