// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible tokens of the protocol.
//
// Balances are kept in raw units. The face value seen by holders is
// raw * scale / ScaleBase, so an elastic token rebases every holder at once
// by changing its scale. A token that is never rebased has raw == face.
package token

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/builtin/roles"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/tx"
)

var logger = log.WithContext("pkg", "token")

var (
	EventApproval      = tx.EventID("Approval(address,address,uint256)")
	EventMinterUpdated = tx.EventID("MinterUpdated(address,uint256)")
	EventScaleUpdated  = tx.EventID("ScaleUpdated(uint256)")
)

// Token is an ERC20 like ledger bound to one contract address.
type Token struct {
	context *solidity.Context
	storage *storage
	roles   *roles.Roles
}

// New creates a token handle for the contract bound to context.
func New(context *solidity.Context) *Token {
	return &Token{
		context: context,
		storage: newStorage(context),
		roles:   roles.New(context),
	}
}

// Address returns the token contract address.
func (t *Token) Address() bicash.Address {
	return t.context.Address()
}

// Roles exposes the role registry of the token.
func (t *Token) Roles() *roles.Roles {
	return t.roles
}

// Initialize sets the token name and owner. Used while building genesis.
func (t *Token) Initialize(name string, owner bicash.Address) error {
	if err := t.storage.name.Set(name); err != nil {
		return err
	}
	return t.roles.Set(roles.Owner, owner)
}

func (t *Token) Name() (string, error) {
	return t.storage.name.Get()
}

// toFace converts raw units into face value, rounding down.
func toFace(raw, scale *uint256.Int) (*uint256.Int, error) {
	face, overflow := new(uint256.Int).MulDivOverflow(raw, scale, bicash.ScaleBase)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return face, nil
}

// toRaw converts face value into raw units, rounding down unless roundUp is set.
// Transfers and mints round down so a holder is never debited more raw units
// than its face balance covers. Burns round up.
func toRaw(face, scale *uint256.Int, roundUp bool) (*uint256.Int, error) {
	raw, overflow := new(uint256.Int).MulDivOverflow(face, bicash.ScaleBase, scale)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	if roundUp && !new(uint256.Int).MulMod(face, bicash.ScaleBase, scale).IsZero() {
		raw.AddUint64(raw, 1)
	}
	return raw, nil
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	scale, err := t.storage.getScale()
	if err != nil {
		return nil, err
	}
	raw, err := t.storage.totalSupply.Get()
	if err != nil {
		return nil, err
	}
	return toFace(raw, scale)
}

func (t *Token) BalanceOf(addr bicash.Address) (*uint256.Int, error) {
	scale, err := t.storage.getScale()
	if err != nil {
		return nil, err
	}
	raw, err := t.storage.getRawBalance(addr)
	if err != nil {
		return nil, err
	}
	return toFace(raw, scale)
}

func (t *Token) Allowance(owner, spender bicash.Address) (*uint256.Int, error) {
	return t.storage.getAllowance(owner, spender)
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender bicash.Address, amount *uint256.Int) error {
	if err := t.storage.setAllowance(owner, spender, amount); err != nil {
		return err
	}
	t.context.Emit(EventApproval, []bicash.Bytes32{tx.AddressTopic(owner), tx.AddressTopic(spender)}, tx.EncodeAmounts(amount))
	return nil
}

// Transfer moves amount from sender to recipient.
// Zero amounts succeed without any effect. On a rebased token the raw units moved
// are rounded down, so the recipient may gain slightly less than amount.
func (t *Token) Transfer(sender, recipient bicash.Address, amount *uint256.Int) error {
	if recipient.IsZero() {
		return reverts.ErrInvalidArgument.Withf("transfer to zero address")
	}
	if amount.IsZero() {
		return nil
	}
	scale, err := t.storage.getScale()
	if err != nil {
		return err
	}
	raw, err := toRaw(amount, scale, false)
	if err != nil {
		return err
	}

	from, err := t.storage.getRawBalance(sender)
	if err != nil {
		return err
	}
	if from.Lt(raw) {
		balance, _ := toFace(from, scale)
		return reverts.ErrInsufficientBalance.Withf("%v has %v, want %v", sender, balance, amount)
	}
	if err := t.storage.setRawBalance(sender, from.Sub(from, raw)); err != nil {
		return err
	}

	to, err := t.storage.getRawBalance(recipient)
	if err != nil {
		return err
	}
	if _, overflow := to.AddOverflow(to, raw); overflow {
		return reverts.ErrOverflow
	}
	if err := t.storage.setRawBalance(recipient, to); err != nil {
		return err
	}
	t.context.RecordTransfer(sender, recipient, amount)
	return nil
}

// TransferFrom moves amount from owner to recipient on behalf of spender,
// consuming spender's allowance. An allowance of max uint256 is never consumed.
func (t *Token) TransferFrom(spender, owner, recipient bicash.Address, amount *uint256.Int) error {
	allowance, err := t.storage.getAllowance(owner, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return reverts.ErrInsufficientAllowance.Withf("%v allows %v %v, want %v", owner, spender, allowance, amount)
	}
	if err := t.Transfer(owner, recipient, amount); err != nil {
		return err
	}
	if isInfinite(allowance) {
		return nil
	}
	return t.storage.setAllowance(owner, spender, allowance.Sub(allowance, amount))
}

func isInfinite(v *uint256.Int) bool {
	return v.Eq(new(uint256.Int).SetAllOne())
}

// SetMinter grants minter the right to mint up to limit. Zero revokes it.
func (t *Token) SetMinter(caller, minter bicash.Address, limit *uint256.Int) error {
	if err := t.roles.Require(roles.Owner, caller); err != nil {
		return err
	}
	if err := t.storage.setMinterCap(minter, limit); err != nil {
		return err
	}
	t.context.Emit(EventMinterUpdated, []bicash.Bytes32{tx.AddressTopic(minter)}, tx.EncodeAmounts(limit))
	logger.Debug("minter updated", "token", t.Address(), "minter", minter, "limit", limit)
	return nil
}

// MinterCap returns how much minter may still mint.
func (t *Token) MinterCap(minter bicash.Address) (*uint256.Int, error) {
	return t.storage.getMinterCap(minter)
}

// Mint creates amount tokens for recipient, drawing down minter's cap.
func (t *Token) Mint(minter, recipient bicash.Address, amount *uint256.Int) error {
	if recipient.IsZero() {
		return reverts.ErrInvalidArgument.Withf("mint to zero address")
	}
	remaining, err := t.storage.getMinterCap(minter)
	if err != nil {
		return err
	}
	if remaining.IsZero() {
		return reverts.ErrUnauthorized.Withf("%v is not a minter", minter)
	}
	if remaining.Lt(amount) {
		return reverts.ErrMinterCap.Withf("%v may mint %v, want %v", minter, remaining, amount)
	}
	scale, err := t.storage.getScale()
	if err != nil {
		return err
	}
	raw, err := toRaw(amount, scale, false)
	if err != nil {
		return err
	}
	balance, err := t.storage.getRawBalance(recipient)
	if err != nil {
		return err
	}
	if _, overflow := balance.AddOverflow(balance, raw); overflow {
		return reverts.ErrOverflow
	}
	if err := t.storage.totalSupply.Add(raw); err != nil {
		return err
	}
	if err := t.storage.setMinterCap(minter, remaining.Sub(remaining, amount)); err != nil {
		return err
	}
	if err := t.storage.setRawBalance(recipient, balance); err != nil {
		return err
	}
	t.context.RecordTransfer(bicash.Address{}, recipient, amount)
	return nil
}

// Burn destroys amount tokens of holder.
func (t *Token) Burn(holder bicash.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	scale, err := t.storage.getScale()
	if err != nil {
		return err
	}
	raw, err := toRaw(amount, scale, true)
	if err != nil {
		return err
	}
	balance, err := t.storage.getRawBalance(holder)
	if err != nil {
		return err
	}
	if balance.Lt(raw) {
		return reverts.ErrInsufficientBalance.Withf("%v burns %v", holder, amount)
	}
	if err := t.storage.setRawBalance(holder, balance.Sub(balance, raw)); err != nil {
		return err
	}
	if err := t.storage.totalSupply.Sub(raw); err != nil {
		return err
	}
	t.context.RecordTransfer(holder, bicash.Address{}, amount)
	return nil
}

func (t *Token) Scale() (*uint256.Int, error) {
	return t.storage.getScale()
}

// SetScaleOperator appoints the holder allowed to rebase the token.
func (t *Token) SetScaleOperator(caller, operator bicash.Address) error {
	return t.roles.Transfer(caller, roles.Owner, roles.ScaleOperator, operator)
}

// SetScale rebases every balance by changing the scale factor.
func (t *Token) SetScale(caller bicash.Address, scale *uint256.Int) error {
	if err := t.roles.Require(roles.ScaleOperator, caller); err != nil {
		return err
	}
	if scale.IsZero() {
		return reverts.ErrInvalidArgument.Withf("zero scale")
	}
	if err := t.storage.scale.Set(scale); err != nil {
		return err
	}
	t.context.Emit(EventScaleUpdated, nil, tx.EncodeAmounts(scale))
	logger.Info("token rebased", "token", t.Address(), "scale", scale)
	return nil
}

// TransferOwnership hands the owner role over to newOwner.
func (t *Token) TransferOwnership(caller, newOwner bicash.Address) error {
	return t.roles.Transfer(caller, roles.Owner, roles.Owner, newOwner)
}
