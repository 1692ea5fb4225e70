// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/tx"
)

func TestParseArgs(t *testing.T) {
	clause := tx.NewClause(bicash.NameToAddress("Boardroom")).WithMethod("stake").
		MustWithArgs(map[string]string{"amount": "50"})
	env := New(nil, &BlockContext{Number: 1}, &TransactionContext{Origin: bicash.Address{1}}, clause)

	var args struct {
		Amount *uint256.Int `json:"amount"`
	}
	require.NoError(t, env.ParseArgs(&args))
	assert.Equal(t, uint64(50), args.Amount.Uint64())
	assert.Equal(t, bicash.Address{1}, env.Caller())
	assert.Equal(t, bicash.NameToAddress("Boardroom"), env.To())

	var strict struct{}
	assert.ErrorIs(t, env.ParseArgs(&strict), reverts.ErrInvalidArgument)

	empty := New(nil, nil, &TransactionContext{}, tx.NewClause(bicash.Address{}).WithMethod("claim"))
	assert.NoError(t, empty.ParseArgs(&strict))
}

func TestOutputs(t *testing.T) {
	env := New(nil, nil, &TransactionContext{}, tx.NewClause(bicash.Address{}).WithMethod("claim"))
	env.Emit(&tx.Event{})
	env.Record(&tx.Transfer{})
	assert.Len(t, env.Events(), 1)
	assert.Len(t, env.Transfers(), 1)

	env.Reset()
	assert.Empty(t, env.Events())
	assert.Empty(t, env.Transfers())
}
