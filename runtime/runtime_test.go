// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/builtin/boardroom"
	"github.com/BicashFinance/bicash-protocol/genesis"
	"github.com/BicashFinance/bicash-protocol/kv"
	"github.com/BicashFinance/bicash-protocol/lvldb"
	"github.com/BicashFinance/bicash-protocol/runtime"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

type stateFailure struct{ kv.Getter }

func (stateFailure) Get([]byte) ([]byte, error) { return nil, errors.New("disk failure") }
func (stateFailure) IsNotFound(error) bool        { return false }

func newRuntime(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater := state.NewStater(db)
	result, err := genesis.NewDevnet().Build(stater)
	require.NoError(t, err)
	bulk := db.Bulk()
	require.NoError(t, result.Stage.Commit(stater.Putter(bulk)))
	require.NoError(t, bulk.Write())

	return runtime.New(stater.NewState(), xenv.BlockContext{Number: 1, Time: 1526400010})
}

func execute(t *testing.T, rt *runtime.Runtime, caller bicash.Address, clause *tx.Clause) *tx.Output {
	out, err := rt.ExecuteClause(clause, &xenv.TransactionContext{Origin: caller})
	require.NoError(t, err)
	return out
}

func boardroomCall(method string, args any) *tx.Clause {
	clause := tx.NewClause(builtin.Boardroom.Address).WithMethod(method)
	if args != nil {
		clause = clause.MustWithArgs(args)
	}
	return clause
}

func TestExecuteClause(t *testing.T) {
	rt := newRuntime(t)
	accs := genesis.DevAccounts()
	staker := accs[1]

	out := execute(t, rt, staker, tx.NewClause(builtin.Share.Address).WithMethod("approve").MustWithArgs(map[string]any{
		"spender": builtin.Boardroom.Address,
		"amount":  bicash.Tokens(100),
	}))
	require.False(t, out.Reverted, out.RevertReason)
	assert.Len(t, out.Events, 1)

	out = execute(t, rt, staker, boardroomCall("stake", map[string]any{"amount": bicash.Tokens(100)}))
	require.False(t, out.Reverted, out.RevertReason)
	require.Len(t, out.Transfers, 1)
	assert.Equal(t, builtin.Share.Address, out.Transfers[0].Token)
	assert.Equal(t, staker, out.Transfers[0].Sender)
	assert.Equal(t, builtin.Boardroom.Address, out.Transfers[0].Recipient)
	require.Len(t, out.Events, 1)
	assert.Equal(t, boardroom.EventStaked, out.Events[0].Topics[0])

	out = execute(t, rt, staker, boardroomCall("balanceOf", map[string]any{"address": staker}))
	require.False(t, out.Reverted)
	assert.Equal(t, bicash.Tokens(100), out.Data)
}

func TestExecuteClauseRevert(t *testing.T) {
	rt := newRuntime(t)
	staker := genesis.DevAccounts()[2]

	// no allowance given
	out := execute(t, rt, staker, boardroomCall("stake", map[string]any{"amount": bicash.Tokens(1)}))
	assert.True(t, out.Reverted)
	assert.Contains(t, out.RevertReason, "insufficient allowance")
	assert.Empty(t, out.Events)
	assert.Empty(t, out.Transfers)

	out = execute(t, rt, staker, boardroomCall("stake", nil))
	assert.True(t, out.Reverted)
	assert.Contains(t, out.RevertReason, "zero amount")

	out = execute(t, rt, staker, boardroomCall("stake", map[string]any{"amount": "1", "extra": true}))
	assert.True(t, out.Reverted)
	assert.Contains(t, out.RevertReason, "invalid argument")

	out = execute(t, rt, staker, boardroomCall("selfdestruct", nil))
	assert.True(t, out.Reverted)
	assert.Contains(t, out.RevertReason, "unknown method")

	out = execute(t, rt, staker, tx.NewClause(staker).WithMethod("stake"))
	assert.True(t, out.Reverted)

	// only the treasury may allocate
	out = execute(t, rt, staker, boardroomCall("allocateSeigniorage", map[string]any{"amount": bicash.Tokens(1)}))
	assert.True(t, out.Reverted)
	assert.Contains(t, out.RevertReason, "unauthorized")
}

func TestRevertRollsBackState(t *testing.T) {
	rt := newRuntime(t)
	accs := genesis.DevAccounts()
	operator, staker := accs[0], accs[3]

	// nobody staked yet, so the treasury mint must be undone too
	out := execute(t, rt, operator, tx.NewClause(builtin.Treasury.Address).WithMethod("allocateSeigniorage").
		MustWithArgs(map[string]any{"amount": bicash.Tokens(10)}))
	require.True(t, out.Reverted)
	assert.Contains(t, out.RevertReason, "no stakers")

	supply, err := builtin.Cash.Native(rt.State(), nil).TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).Mul(bicash.Tokens(1_000_000), uint256.NewInt(10)), supply)

	execute(t, rt, staker, tx.NewClause(builtin.Share.Address).WithMethod("approve").MustWithArgs(map[string]any{
		"spender": builtin.Boardroom.Address,
		"amount":  bicash.Tokens(50),
	}))
	out = execute(t, rt, staker, boardroomCall("stake", map[string]any{"amount": bicash.Tokens(50)}))
	require.False(t, out.Reverted, out.RevertReason)

	out = execute(t, rt, operator, tx.NewClause(builtin.Treasury.Address).WithMethod("allocateSeigniorage").
		MustWithArgs(map[string]any{"amount": bicash.Tokens(10)}))
	require.False(t, out.Reverted, out.RevertReason)

	out = execute(t, rt, staker, boardroomCall("earned", map[string]any{"address": staker}))
	assert.Equal(t, bicash.Tokens(10), out.Data)
}

func TestCall(t *testing.T) {
	rt := newRuntime(t)
	staker := genesis.DevAccounts()[4]

	out, err := rt.Call(tx.NewClause(builtin.Share.Address).WithMethod("approve").MustWithArgs(map[string]any{
		"spender": builtin.Boardroom.Address,
		"amount":  bicash.Tokens(1),
	}), staker)
	require.NoError(t, err)
	assert.False(t, out.Reverted)
	assert.Len(t, out.Events, 1)

	allowance, err := builtin.Share.Native(rt.State(), nil).Allowance(staker, builtin.Boardroom.Address)
	require.NoError(t, err)
	assert.True(t, allowance.IsZero())
}

func TestInfrastructureError(t *testing.T) {
	rt := runtime.New(state.New(stateFailure{}), xenv.BlockContext{})
	_, err := rt.ExecuteClause(boardroomCall("totalSupply", nil), &xenv.TransactionContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk failure")
}
