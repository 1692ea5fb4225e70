// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package boardroom distributes seigniorage rewards to stakers pro rata to their stake.
//
// Every allocation appends a snapshot holding the cumulative reward-per-share.
// A member's pending reward is balance * (rps[latest] - rps[last settled]) / scale,
// so settling a member costs two snapshot reads however many allocations happened.
package boardroom

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/builtin/roles"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
	"github.com/BicashFinance/bicash-protocol/builtin/token"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

var logger = log.WithContext("pkg", "boardroom")

var (
	EventStaked                = tx.EventID("Staked(address,uint256)")
	EventWithdrawn             = tx.EventID("Withdrawn(address,uint256)")
	EventRewardPaid            = tx.EventID("RewardPaid(address,uint256)")
	EventRewardAdded           = tx.EventID("RewardAdded(address,uint256)")
	EventWithdrawLockupUpdated = tx.EventID("WithdrawLockupUpdated(uint256)")
)

// Boardroom is the reward ledger. Members stake Share and earn Cash.
type Boardroom struct {
	context  *solidity.Context
	storage  *storage
	roles    *roles.Roles
	blockCtx *xenv.BlockContext
	share    *token.Token
	cash     *token.Token
}

// New creates the boardroom bound to context, running in the given block.
func New(context *solidity.Context, blockCtx *xenv.BlockContext, share, cash *token.Token) *Boardroom {
	return &Boardroom{
		context:  context,
		storage:  newStorage(context),
		roles:    roles.New(context),
		blockCtx: blockCtx,
		share:    share,
		cash:     cash,
	}
}

// Address returns the boardroom contract address, which holds staked Share and undistributed Cash.
func (b *Boardroom) Address() bicash.Address {
	return b.context.Address()
}

// Initialize sets the roles and policy parameters and records the genesis sentinel snapshot.
func (b *Boardroom) Initialize(owner, operator bicash.Address, rewardScaleDecimals, lockupBlocks uint64) error {
	if rewardScaleDecimals < bicash.MinRewardScaleDecimals || rewardScaleDecimals > bicash.MaxRewardScaleDecimals {
		return reverts.ErrInvalidArgument.Withf("reward scale decimals %d out of range", rewardScaleDecimals)
	}
	if err := b.roles.Set(roles.Owner, owner); err != nil {
		return err
	}
	if err := b.roles.Set(roles.Operator, operator); err != nil {
		return err
	}
	if err := RewardScaleDecimals.Override(b.context, rewardScaleDecimals); err != nil {
		return err
	}
	if err := WithdrawLockupBlocks.Override(b.context, lockupBlocks); err != nil {
		return err
	}
	sentinel := (&Snapshot{Number: b.blockCtx.Number, Time: b.blockCtx.Time}).normalize()
	return b.storage.snapshots.Set(0, sentinel)
}

// pending computes the reward m earned since its last settlement.
func (b *Boardroom) pending(m *Member) (*uint256.Int, uint64, error) {
	latest, err := b.storage.getLatestSnapshot()
	if err != nil {
		return nil, 0, err
	}
	if m.LastSnapshotIndex == latest.Index || m.Balance.IsZero() {
		return new(uint256.Int), latest.Index, nil
	}
	last, err := b.storage.getSnapshot(m.LastSnapshotIndex)
	if err != nil {
		return nil, 0, err
	}
	scale, err := b.storage.getRewardScale()
	if err != nil {
		return nil, 0, err
	}
	delta := new(uint256.Int).Sub(latest.RewardPerShare, last.RewardPerShare)
	earned, overflow := new(uint256.Int).MulDivOverflow(m.Balance, delta, scale)
	if overflow {
		return nil, 0, reverts.ErrOverflow
	}
	return earned, latest.Index, nil
}

// settle loads the member of staker with its pending reward moved into RewardEarned.
// The result is not stored.
func (b *Boardroom) settle(staker bicash.Address) (*Member, error) {
	m, err := b.storage.getMember(staker)
	if err != nil {
		return nil, err
	}
	earned, latest, err := b.pending(m)
	if err != nil {
		return nil, err
	}
	if _, overflow := m.RewardEarned.AddOverflow(m.RewardEarned, earned); overflow {
		return nil, reverts.ErrOverflow
	}
	m.LastSnapshotIndex = latest
	return m, nil
}

// Stake locks amount of Share from staker. The boardroom must be approved to pull it.
func (b *Boardroom) Stake(staker bicash.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return reverts.ErrZeroAmount
	}
	m, err := b.settle(staker)
	if err != nil {
		return err
	}
	if _, overflow := m.Balance.AddOverflow(m.Balance, amount); overflow {
		return reverts.ErrOverflow
	}
	if err := b.share.TransferFrom(b.Address(), staker, b.Address(), amount); err != nil {
		logger.Debug("stake failed", "staker", staker, "amount", amount, "error", err)
		return err
	}
	m.EpochTimerStart = b.blockCtx.Number
	if err := b.storage.setMember(staker, m); err != nil {
		return err
	}
	if err := b.storage.totalStaked.Add(amount); err != nil {
		return err
	}
	b.context.Emit(EventStaked, []bicash.Bytes32{tx.AddressTopic(staker)}, tx.EncodeAmounts(amount))
	logger.Debug("staked", "staker", staker, "amount", amount, "balance", m.Balance)
	return nil
}

// Withdraw returns amount of staked Share to staker once the lockup since the latest stake elapsed.
func (b *Boardroom) Withdraw(staker bicash.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return reverts.ErrZeroAmount
	}
	m, err := b.settle(staker)
	if err != nil {
		return err
	}
	if m.Balance.Lt(amount) {
		return reverts.ErrInsufficientStake.Withf("%v staked %v, want %v", staker, m.Balance, amount)
	}
	withdrawable, err := b.withdrawableAt(m)
	if err != nil {
		return err
	}
	if uint64(b.blockCtx.Number) < withdrawable {
		return reverts.ErrLockedPeriod.Withf("withdrawable at block %d", withdrawable)
	}
	if err := b.share.Transfer(b.Address(), staker, amount); err != nil {
		return err
	}
	m.Balance.Sub(m.Balance, amount)
	if err := b.storage.setMember(staker, m); err != nil {
		return err
	}
	if err := b.storage.totalStaked.Sub(amount); err != nil {
		return err
	}
	b.context.Emit(EventWithdrawn, []bicash.Bytes32{tx.AddressTopic(staker)}, tx.EncodeAmounts(amount))
	logger.Debug("withdrawn", "staker", staker, "amount", amount, "balance", m.Balance)
	return nil
}

// Claim pays out all reward of staker and returns the amount paid.
// Claiming again without a new allocation pays zero.
func (b *Boardroom) Claim(staker bicash.Address) (*uint256.Int, error) {
	m, err := b.settle(staker)
	if err != nil {
		return nil, err
	}
	reward := m.RewardEarned.Clone()
	if !reward.IsZero() {
		if err := b.cash.Transfer(b.Address(), staker, reward); err != nil {
			logger.Info("claim failed", "staker", staker, "reward", reward, "error", err)
			return nil, err
		}
		if err := b.storage.totalPaid.Add(reward); err != nil {
			return nil, err
		}
		m.RewardEarned.Clear()
		b.context.Emit(EventRewardPaid, []bicash.Bytes32{tx.AddressTopic(staker)}, tx.EncodeAmounts(reward))
		logger.Debug("reward paid", "staker", staker, "reward", reward)
	}
	if err := b.storage.setMember(staker, m); err != nil {
		return nil, err
	}
	return reward, nil
}

// Exit withdraws the whole stake and claims the reward of staker.
func (b *Boardroom) Exit(staker bicash.Address) (*uint256.Int, error) {
	balance, err := b.StakedBalanceOf(staker)
	if err != nil {
		return nil, err
	}
	if err := b.Withdraw(staker, balance); err != nil {
		return nil, err
	}
	return b.Claim(staker)
}

// AllocateSeigniorage distributes amount of Cash, pulled from caller, over the current stake.
// Only the operator may allocate.
func (b *Boardroom) AllocateSeigniorage(caller bicash.Address, amount *uint256.Int) error {
	if err := b.roles.Require(roles.Operator, caller); err != nil {
		return err
	}
	if amount.IsZero() {
		return reverts.ErrZeroAmount
	}
	total, err := b.storage.totalStaked.Get()
	if err != nil {
		return err
	}
	if total.IsZero() {
		return reverts.ErrNoStakers
	}
	scale, err := b.storage.getRewardScale()
	if err != nil {
		return err
	}
	delta, overflow := new(uint256.Int).MulDivOverflow(amount, scale, total)
	if overflow {
		return reverts.ErrOverflow
	}
	prev, err := b.storage.getLatestSnapshot()
	if err != nil {
		return err
	}
	rps, overflow := new(uint256.Int).AddOverflow(prev.RewardPerShare, delta)
	if overflow {
		return reverts.ErrOverflow
	}

	if err := b.cash.TransferFrom(b.Address(), caller, b.Address(), amount); err != nil {
		logger.Info("allocate seigniorage failed", "amount", amount, "error", err)
		return err
	}
	next := &Snapshot{
		Number:         b.blockCtx.Number,
		Time:           b.blockCtx.Time,
		RewardReceived: amount.Clone(),
		RewardPerShare: rps,
		TotalStake:     total,
	}
	if err := b.storage.appendSnapshot(next); err != nil {
		return err
	}
	if err := b.storage.totalAllocated.Add(amount); err != nil {
		return err
	}
	b.context.Emit(EventRewardAdded, []bicash.Bytes32{tx.AddressTopic(caller)}, tx.EncodeAmounts(amount))
	logger.Info("seigniorage allocated", "snapshot", next.Index, "amount", amount, "totalStake", total)
	return nil
}

// TransferOperator hands the allocation capability over to operator. Only the owner may do it.
func (b *Boardroom) TransferOperator(caller, operator bicash.Address) error {
	return b.roles.Transfer(caller, roles.Owner, roles.Operator, operator)
}

// TransferOwnership hands the owner role over to newOwner.
func (b *Boardroom) TransferOwnership(caller, newOwner bicash.Address) error {
	return b.roles.Transfer(caller, roles.Owner, roles.Owner, newOwner)
}

// SetWithdrawLockup changes the number of blocks a stake stays locked. Zero disables the lockup.
func (b *Boardroom) SetWithdrawLockup(caller bicash.Address, blocks uint64) error {
	if err := b.roles.Require(roles.Owner, caller); err != nil {
		return err
	}
	if err := WithdrawLockupBlocks.Override(b.context, blocks); err != nil {
		return err
	}
	b.context.Emit(EventWithdrawLockupUpdated, nil, tx.EncodeAmounts(uint256.NewInt(blocks)))
	return nil
}
