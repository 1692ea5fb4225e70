// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"bytes"
	"encoding/json"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// BlockContext is the block a call is admitted in.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext identifies the admitted call.
type TransactionContext struct {
	ID     bicash.Bytes32
	Seq    uint64
	Origin bicash.Address
}

// Environment is the environment a native method runs in.
// It collects the events and transfers produced by the call.
type Environment struct {
	state     *state.State
	blockCtx  *BlockContext
	txCtx     *TransactionContext
	clause    *tx.Clause
	events    tx.Events
	transfers tx.Transfers
}

func New(state *state.State, blockCtx *BlockContext, txCtx *TransactionContext, clause *tx.Clause) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		clause:   clause,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) Caller() bicash.Address                  { return env.txCtx.Origin }
func (env *Environment) To() bicash.Address                      { return env.clause.To() }
func (env *Environment) Events() tx.Events                       { return env.events }
func (env *Environment) Transfers() tx.Transfers                 { return env.transfers }

// ParseArgs decodes the clause args into val, rejecting unknown fields.
func (env *Environment) ParseArgs(val any) error {
	args := env.clause.Args()
	if len(args) == 0 {
		args = []byte("{}")
	}
	decoder := json.NewDecoder(bytes.NewReader(args))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		return reverts.ErrInvalidArgument.Withf("decode args: %v", err)
	}
	return nil
}

// Emit implements solidity.Emitter.
func (env *Environment) Emit(ev *tx.Event) {
	env.events = append(env.events, ev)
}

// Record implements solidity.Emitter.
func (env *Environment) Record(tr *tx.Transfer) {
	env.transfers = append(env.transfers, tr)
}

// Reset drops the collected outputs, used when the call is reverted.
func (env *Environment) Reset() {
	env.events = nil
	env.transfers = nil
}
