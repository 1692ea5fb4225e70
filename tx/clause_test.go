// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

func TestClause(t *testing.T) {
	board := bicash.NameToAddress("Boardroom")
	staker := bicash.BytesToAddress([]byte("staker"))

	c := NewClause(board).WithMethod("stake").MustWithArgs(map[string]string{"amount": "50"})
	assert.Equal(t, board, c.To())
	assert.Equal(t, "stake", c.Method())
	assert.JSONEq(t, `{"amount":"50"}`, string(c.Args()))

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Clause
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c.ID(1, staker), decoded.ID(1, staker))
	assert.NotEqual(t, c.ID(1, staker), c.ID(2, staker))

	assert.Error(t, json.Unmarshal([]byte(`{"to":"`+board.String()+`"}`), &decoded))
}

func TestEventAmounts(t *testing.T) {
	data := EncodeAmounts(uint256.NewInt(50), bicash.Tokens(1))
	amounts, err := DecodeAmounts(data)
	require.NoError(t, err)
	require.Len(t, amounts, 2)
	assert.Equal(t, uint64(50), amounts[0].Uint64())
	assert.Equal(t, bicash.Tokens(1), amounts[1])

	assert.Equal(t, EventID("Staked(address,uint256)"), EventID("Staked(address,uint256)"))
	assert.NotEqual(t, EventID("Staked(address,uint256)"), EventID("Withdrawn(address,uint256)"))
}
