// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package roles keeps the holders of privileged capabilities of a builtin contract.
package roles

import (
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// Well known roles.
const (
	Owner         = "owner"
	Operator      = "operator"
	ScaleOperator = "scale-operator"
)

// EventRoleTransferred is emitted as RoleTransferred(role, previous, holder).
var EventRoleTransferred = tx.EventID("RoleTransferred(bytes32,address,address)")

// Roles maps role names to their single holder.
type Roles struct {
	context *solidity.Context
	holders *solidity.Mapping[solidity.StringKey, bicash.Address]
}

func New(context *solidity.Context) *Roles {
	return &Roles{
		context: context,
		holders: solidity.NewMapping[solidity.StringKey, bicash.Address](context, bicash.BytesToBytes32([]byte("roles"))),
	}
}

// Holder returns the holder of role, zero if unassigned.
func (r *Roles) Holder(role string) (bicash.Address, error) {
	holder, err := r.holders.Get(solidity.StringKey(role))
	if err != nil {
		return bicash.Address{}, errors.Wrapf(err, "failed to get %s", role)
	}
	return holder, nil
}

// Require fails with ErrUnauthorized unless caller holds role.
func (r *Roles) Require(role string, caller bicash.Address) error {
	holder, err := r.Holder(role)
	if err != nil {
		return err
	}
	if holder.IsZero() || holder != caller {
		return reverts.ErrUnauthorized.Withf("%v is not %s", caller, role)
	}
	return nil
}

// Set assigns role without any check. Used while building genesis.
func (r *Roles) Set(role string, holder bicash.Address) error {
	return r.holders.Set(solidity.StringKey(role), holder)
}

// Transfer moves role to newHolder. Caller must hold adminRole.
func (r *Roles) Transfer(caller bicash.Address, adminRole, role string, newHolder bicash.Address) error {
	if err := r.Require(adminRole, caller); err != nil {
		return err
	}
	if newHolder.IsZero() {
		return reverts.ErrInvalidArgument.Withf("zero %s", role)
	}
	prev, err := r.Holder(role)
	if err != nil {
		return err
	}
	if err := r.Set(role, newHolder); err != nil {
		return err
	}
	r.context.Emit(EventRoleTransferred, []bicash.Bytes32{
		bicash.BytesToBytes32([]byte(role)),
		tx.AddressTopic(prev),
		tx.AddressTopic(newHolder),
	}, nil)
	return nil
}
