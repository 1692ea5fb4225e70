// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package treasury is the allocator feeding the boardroom with freshly minted Cash.
// Deciding how much to mint is left to its operator.
package treasury

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/boardroom"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/builtin/roles"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
	"github.com/BicashFinance/bicash-protocol/builtin/token"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/tx"
)

var logger = log.WithContext("pkg", "treasury")

var EventSeigniorageFunded = tx.EventID("SeigniorageFunded(uint256)")

type Treasury struct {
	context *solidity.Context
	roles   *roles.Roles
	cash    *token.Token
	board   *boardroom.Boardroom
}

func New(context *solidity.Context, cash *token.Token, board *boardroom.Boardroom) *Treasury {
	return &Treasury{
		context: context,
		roles:   roles.New(context),
		cash:    cash,
		board:   board,
	}
}

func (t *Treasury) Address() bicash.Address {
	return t.context.Address()
}

// Initialize sets the roles. Used while building genesis.
func (t *Treasury) Initialize(owner, operator bicash.Address) error {
	if err := t.roles.Set(roles.Owner, owner); err != nil {
		return err
	}
	return t.roles.Set(roles.Operator, operator)
}

// AllocateSeigniorage mints amount of Cash and hands it to the boardroom.
// The treasury must be a Cash minter and the boardroom operator.
func (t *Treasury) AllocateSeigniorage(caller bicash.Address, amount *uint256.Int) error {
	if err := t.roles.Require(roles.Operator, caller); err != nil {
		return err
	}
	if amount.IsZero() {
		return reverts.ErrZeroAmount
	}
	if err := t.cash.Mint(t.Address(), t.Address(), amount); err != nil {
		return err
	}
	if err := t.cash.Approve(t.Address(), t.board.Address(), amount); err != nil {
		return err
	}
	if err := t.board.AllocateSeigniorage(t.Address(), amount); err != nil {
		return err
	}
	t.context.Emit(EventSeigniorageFunded, nil, tx.EncodeAmounts(amount))
	logger.Info("seigniorage funded", "amount", amount)
	return nil
}

// TransferOperator hands the allocation right over to operator.
func (t *Treasury) TransferOperator(caller, operator bicash.Address) error {
	return t.roles.Transfer(caller, roles.Owner, roles.Operator, operator)
}

func (t *Treasury) Operator() (bicash.Address, error) {
	return t.roles.Holder(roles.Operator)
}
