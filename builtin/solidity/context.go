// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// Emitter collects the side outputs of a call.
type Emitter interface {
	Emit(ev *tx.Event)
	Record(tr *tx.Transfer)
}

// Context binds a builtin contract to its storage and to the emitter of the running call.
type Context struct {
	address bicash.Address
	state   *state.State
	emitter Emitter
}

// NewContext creates a contract context. A nil emitter drops all outputs.
func NewContext(address bicash.Address, state *state.State, emitter Emitter) *Context {
	return &Context{
		address: address,
		state:   state,
		emitter: emitter,
	}
}

func (c *Context) Address() bicash.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Emitter returns the emitter outputs go to, nil if dropped.
func (c *Context) Emitter() Emitter {
	return c.emitter
}

// Emit logs an event generated by the contract.
func (c *Context) Emit(id bicash.Bytes32, topics []bicash.Bytes32, data []byte) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(&tx.Event{
		Address: c.address,
		Topics:  append([]bicash.Bytes32{id}, topics...),
		Data:    data,
	})
}

// RecordTransfer logs a movement of the token implemented by the contract.
func (c *Context) RecordTransfer(sender, recipient bicash.Address, amount *uint256.Int) {
	if c.emitter == nil {
		return
	}
	c.emitter.Record(&tx.Transfer{
		Token:     c.address,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount.Clone(),
	})
}
