// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boardroom

import (
	"github.com/holiman/uint256"
)

// Member is the record of a staker.
type Member struct {
	Balance           *uint256.Int `json:"balance"`           // staked amount
	RewardEarned      *uint256.Int `json:"rewardEarned"`      // settled, unclaimed reward
	LastSnapshotIndex uint64       `json:"lastSnapshotIndex"` // snapshot the member is settled up to
	EpochTimerStart   uint32       `json:"epochTimerStart"`   // block of the latest stake
}

func (m *Member) normalize() *Member {
	if m.Balance == nil {
		m.Balance = new(uint256.Int)
	}
	if m.RewardEarned == nil {
		m.RewardEarned = new(uint256.Int)
	}
	return m
}

// Snapshot is an immutable record appended by every allocation.
// Snapshot 0 is the genesis sentinel with zero reward-per-share.
type Snapshot struct {
	Index          uint64       `json:"index" rlp:"-"`
	Number         uint32       `json:"number"` // block the reward was received in
	Time           uint64       `json:"time"`
	RewardReceived *uint256.Int `json:"rewardReceived"`
	RewardPerShare *uint256.Int `json:"rewardPerShare"` // cumulative, scaled by the reward scale
	TotalStake     *uint256.Int `json:"totalStake"`     // total staked when the reward was received
}

func (s *Snapshot) normalize() *Snapshot {
	if s.RewardReceived == nil {
		s.RewardReceived = new(uint256.Int)
	}
	if s.RewardPerShare == nil {
		s.RewardPerShare = new(uint256.Int)
	}
	if s.TotalStake == nil {
		s.TotalStake = new(uint256.Int)
	}
	return s
}
