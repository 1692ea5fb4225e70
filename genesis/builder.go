// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/runtime"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State, blockCtx *xenv.BlockContext) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller bicash.Address
}

// Result is the outcome of a genesis build.
type Result struct {
	Stage     *state.Stage
	Events    tx.Events
	Transfers tx.Transfers
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(state *state.State, blockCtx *xenv.BlockContext) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(clause *tx.Clause, caller bicash.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// Build runs the presets against an empty state of stater.
func (b *Builder) Build(stater *state.Stater) (*Result, error) {
	st := stater.NewState()
	blockCtx := xenv.BlockContext{Time: b.timestamp}

	for _, proc := range b.stateProcs {
		if err := proc(st, &blockCtx); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, blockCtx)

	var result Result
	for i, call := range b.calls {
		out, err := rt.ExecuteClause(call.clause, &xenv.TransactionContext{
			ID:     call.clause.ID(uint64(i), call.caller),
			Origin: call.caller,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "genesis call %d", i)
		}
		if out.Reverted {
			return nil, errors.Errorf("genesis call %d (%v) reverted: %v", i, call.clause.Method(), out.RevertReason)
		}
		result.Events = append(result.Events, out.Events...)
		result.Transfers = append(result.Transfers, out.Transfers...)
	}
	result.Stage = st.Stage()
	return &result, nil
}
