// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/BicashFinance/bicash-protocol/bicash"
)

// ConfigVariable is a contract parameter with a compiled-in default,
// overridden by a non-zero value stored in its slot.
type ConfigVariable struct {
	slot         bicash.Bytes32
	name         string
	defaultValue uint64
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:         bicash.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Default() uint64 {
	return c.defaultValue
}

// Get returns the effective value for the contract bound to ctx.
func (c *ConfigVariable) Get(ctx *Context) (uint64, error) {
	v, err := NewValue[uint64](ctx, c.slot).Get()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return c.defaultValue, nil
	}
	return v, nil
}

// Override stores a value for the contract bound to ctx. Zero restores the default.
func (c *ConfigVariable) Override(ctx *Context, value uint64) error {
	return NewValue[uint64](ctx, c.slot).Set(value)
}
