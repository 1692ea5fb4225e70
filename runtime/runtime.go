// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

// Runtime is to support clause execution.
type Runtime struct {
	state    *state.State
	blockCtx xenv.BlockContext
}

// New create a Runtime object.
func New(state *state.State, blockCtx xenv.BlockContext) *Runtime {
	return &Runtime{
		state:    state,
		blockCtx: blockCtx,
	}
}

func (rt *Runtime) State() *state.State              { return rt.state }
func (rt *Runtime) BlockContext() xenv.BlockContext { return rt.blockCtx }

func (rt *Runtime) execute(clause *tx.Clause, txCtx *xenv.TransactionContext, isStatic bool) (*tx.Output, error) {
	method, ok := builtin.FindNativeMethod(clause.To(), clause.Method())
	if !ok {
		return &tx.Output{
			Reverted:     true,
			RevertReason: reverts.ErrInvalidArgument.Withf("unknown method %v.%v", clause.To(), clause.Method()).Error(),
		}, nil
	}

	// checkpoint to be reverted when the call fails
	checkpoint := rt.state.NewCheckpoint()

	blockCtx := rt.blockCtx
	env := xenv.New(rt.state, &blockCtx, txCtx, clause)
	data, err := method.Run(env)
	if isStatic {
		rt.state.RevertTo(checkpoint)
	}
	if err != nil {
		rt.state.RevertTo(checkpoint)
		env.Reset()
		if reverts.IsRevertErr(err) {
			return &tx.Output{Reverted: true, RevertReason: err.Error()}, nil
		}
		return nil, errors.WithMessagef(err, "execute %v.%v", method.Contract, method.Name)
	}
	return &tx.Output{
		Data:      data,
		Events:    env.Events(),
		Transfers: env.Transfers(),
	}, nil
}

// ExecuteClause executes a single clause. A reverted clause leaves the state untouched
// and is reported in the output; other errors are returned as is.
func (rt *Runtime) ExecuteClause(clause *tx.Clause, txCtx *xenv.TransactionContext) (*tx.Output, error) {
	return rt.execute(clause, txCtx, false)
}

// Call executes the clause and discards its state changes.
func (rt *Runtime) Call(clause *tx.Clause, caller bicash.Address) (*tx.Output, error) {
	return rt.execute(clause, &xenv.TransactionContext{Origin: caller}, true)
}
