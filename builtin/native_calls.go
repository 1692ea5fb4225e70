// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/boardroom"
	"github.com/BicashFinance/bicash-protocol/builtin/token"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

type (
	amountArgs struct {
		Amount *uint256.Int `json:"amount"`
	}
	addressArgs struct {
		Address bicash.Address `json:"address"`
	}
	transferArgs struct {
		To     bicash.Address `json:"to"`
		Amount *uint256.Int   `json:"amount"`
	}
	transferFromArgs struct {
		From   bicash.Address `json:"from"`
		To     bicash.Address `json:"to"`
		Amount *uint256.Int   `json:"amount"`
	}
	spenderArgs struct {
		Spender bicash.Address `json:"spender"`
		Amount  *uint256.Int   `json:"amount"`
	}
	allowanceArgs struct {
		Owner   bicash.Address `json:"owner"`
		Spender bicash.Address `json:"spender"`
	}
	minterArgs struct {
		Minter bicash.Address `json:"minter"`
		Cap    *uint256.Int   `json:"cap"`
	}
	scaleArgs struct {
		Scale *uint256.Int `json:"scale"`
	}
	indexArgs struct {
		Index uint64 `json:"index"`
	}
	blocksArgs struct {
		Blocks uint64 `json:"blocks"`
	}
)

// amount treats a missing amount as zero.
func amount(a *uint256.Int) *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return a
}

func parse[T any](env *xenv.Environment) (*T, error) {
	var args T
	if err := env.ParseArgs(&args); err != nil {
		return nil, err
	}
	return &args, nil
}

func init() {
	initTokenMethods(Cash)
	initTokenMethods(Share)
	initCashMethods()
	initBoardroomMethods()
	initTreasuryMethods()
}

func initTokenMethods(c *tokenContract) {
	native := func(env *xenv.Environment) *token.Token {
		return c.Native(env.State(), env)
	}
	register(c.contract, []methodDef{
		{"name", true, func(env *xenv.Environment) (any, error) {
			return native(env).Name()
		}},
		{"totalSupply", true, func(env *xenv.Environment) (any, error) {
			return native(env).TotalSupply()
		}},
		{"balanceOf", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).BalanceOf(args.Address)
		}},
		{"allowance", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[allowanceArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).Allowance(args.Owner, args.Spender)
		}},
		{"minterCap", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).MinterCap(args.Address)
		}},
		{"approve", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[spenderArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).Approve(env.Caller(), args.Spender, amount(args.Amount))
		}},
		{"transfer", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[transferArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).Transfer(env.Caller(), args.To, amount(args.Amount))
		}},
		{"transferFrom", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[transferFromArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).TransferFrom(env.Caller(), args.From, args.To, amount(args.Amount))
		}},
		{"mint", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[transferArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).Mint(env.Caller(), args.To, amount(args.Amount))
		}},
		{"burn", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[amountArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).Burn(env.Caller(), amount(args.Amount))
		}},
		{"setMinter", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[minterArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).SetMinter(env.Caller(), args.Minter, amount(args.Cap))
		}},
		{"transferOwnership", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).TransferOwnership(env.Caller(), args.Address)
		}},
	})
}

func initCashMethods() {
	register(Cash.contract, []methodDef{
		{"scale", true, func(env *xenv.Environment) (any, error) {
			return Cash.Native(env.State(), env).Scale()
		}},
		{"setScaleOperator", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, Cash.Native(env.State(), env).SetScaleOperator(env.Caller(), args.Address)
		}},
		{"setScale", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[scaleArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, Cash.Native(env.State(), env).SetScale(env.Caller(), amount(args.Scale))
		}},
	})
}

func initBoardroomMethods() {
	native := func(env *xenv.Environment) *boardroom.Boardroom {
		return Boardroom.Native(env.State(), env.BlockContext(), env)
	}
	register(Boardroom.contract, []methodDef{
		{"stake", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[amountArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).Stake(env.Caller(), amount(args.Amount))
		}},
		{"withdraw", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[amountArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).Withdraw(env.Caller(), amount(args.Amount))
		}},
		{"claimReward", false, func(env *xenv.Environment) (any, error) {
			return native(env).Claim(env.Caller())
		}},
		{"exit", false, func(env *xenv.Environment) (any, error) {
			return native(env).Exit(env.Caller())
		}},
		{"allocateSeigniorage", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[amountArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).AllocateSeigniorage(env.Caller(), amount(args.Amount))
		}},
		{"transferOperator", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).TransferOperator(env.Caller(), args.Address)
		}},
		{"transferOwnership", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).TransferOwnership(env.Caller(), args.Address)
		}},
		{"setWithdrawLockup", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[blocksArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, native(env).SetWithdrawLockup(env.Caller(), args.Blocks)
		}},
		{"balanceOf", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).StakedBalanceOf(args.Address)
		}},
		{"earned", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).ClaimableOf(args.Address)
		}},
		{"member", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).Member(args.Address)
		}},
		{"canWithdraw", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).CanWithdraw(args.Address)
		}},
		{"withdrawableAt", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).WithdrawableAt(args.Address)
		}},
		{"totalSupply", true, func(env *xenv.Environment) (any, error) {
			return native(env).TotalStaked()
		}},
		{"latestSnapshotIndex", true, func(env *xenv.Environment) (any, error) {
			return native(env).LatestSnapshotIndex()
		}},
		{"snapshot", true, func(env *xenv.Environment) (any, error) {
			args, err := parse[indexArgs](env)
			if err != nil {
				return nil, err
			}
			return native(env).Snapshot(args.Index)
		}},
		{"rewardPerShare", true, func(env *xenv.Environment) (any, error) {
			return native(env).RewardPerShare()
		}},
		{"operator", true, func(env *xenv.Environment) (any, error) {
			return native(env).Operator()
		}},
		{"owner", true, func(env *xenv.Environment) (any, error) {
			return native(env).Owner()
		}},
		{"totalAllocated", true, func(env *xenv.Environment) (any, error) {
			return native(env).TotalAllocated()
		}},
		{"totalPaid", true, func(env *xenv.Environment) (any, error) {
			return native(env).TotalPaid()
		}},
		{"rewardScale", true, func(env *xenv.Environment) (any, error) {
			return native(env).RewardScale()
		}},
		{"withdrawLockup", true, func(env *xenv.Environment) (any, error) {
			return native(env).WithdrawLockup()
		}},
	})
}

func initTreasuryMethods() {
	register(Treasury.contract, []methodDef{
		{"allocateSeigniorage", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[amountArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, Treasury.Native(env.State(), env.BlockContext(), env).AllocateSeigniorage(env.Caller(), amount(args.Amount))
		}},
		{"transferOperator", false, func(env *xenv.Environment) (any, error) {
			args, err := parse[addressArgs](env)
			if err != nil {
				return nil, err
			}
			return nil, Treasury.Native(env.State(), env.BlockContext(), env).TransferOperator(env.Caller(), args.Address)
		}},
		{"operator", true, func(env *xenv.Environment) (any, error) {
			return Treasury.Native(env.State(), env.BlockContext(), env).Operator()
		}},
	})
}
