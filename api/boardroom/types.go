// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boardroom

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/boardroom"
)

// Summary of the boardroom at the current block.
type Summary struct {
	BlockNumber         uint32         `json:"blockNumber"`
	TotalStaked         *uint256.Int   `json:"totalStaked"`
	TotalAllocated      *uint256.Int   `json:"totalAllocated"`
	TotalPaid           *uint256.Int   `json:"totalPaid"`
	LatestSnapshotIndex uint64         `json:"latestSnapshotIndex"`
	RewardPerShare      *uint256.Int   `json:"rewardPerShare"`
	RewardScale         *uint256.Int   `json:"rewardScale"`
	WithdrawLockup      uint64         `json:"withdrawLockup"`
	Operator            bicash.Address `json:"operator"`
	Owner               bicash.Address `json:"owner"`
}

// Member is the record of a staker along with what it may claim and withdraw.
type Member struct {
	Address bicash.Address `json:"address"`
	*boardroom.Member
	Claimable      *uint256.Int `json:"claimable"`
	WithdrawableAt uint64       `json:"withdrawableAt"`
	CanWithdraw    bool         `json:"canWithdraw"`
}
