// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/BicashFinance/bicash-protocol/bicash"
)

// Address is a storage slot holding an address.
type Address struct {
	value *Value[bicash.Address]
}

func NewAddress(context *Context, pos bicash.Bytes32) *Address {
	return &Address{NewValue[bicash.Address](context, pos)}
}

func (a *Address) Get() (bicash.Address, error) {
	return a.value.Get()
}

func (a *Address) Set(addr bicash.Address) error {
	return a.value.Set(addr)
}
