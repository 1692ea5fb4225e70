// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
)

// Uint256 is a storage slot holding an unsigned 256 bit integer.
// Arithmetic is checked and fails with reverts.ErrOverflow instead of wrapping.
type Uint256 struct {
	context *Context
	pos     bicash.Bytes32
}

func NewUint256(context *Context, pos bicash.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

// Get returns the value, never nil.
func (u *Uint256) Get() (*uint256.Int, error) {
	return decodeValue[*uint256.Int](u.context, u.pos)
}

func (u *Uint256) Set(value *uint256.Int) error {
	return encodeValue(u.context, u.pos, value)
}

func (u *Uint256) Add(value *uint256.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := v.AddOverflow(v, value); overflow {
		return reverts.ErrOverflow
	}
	return u.Set(v)
}

func (u *Uint256) Sub(value *uint256.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if _, underflow := v.SubOverflow(v, value); underflow {
		return reverts.ErrOverflow
	}
	return u.Set(v)
}
