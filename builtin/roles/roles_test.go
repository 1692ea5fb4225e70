// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
	"github.com/BicashFinance/bicash-protocol/lvldb"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/test/datagen"
	"github.com/BicashFinance/bicash-protocol/tx"
)

type recorder struct{ events tx.Events }

func (r *recorder) Emit(ev *tx.Event)   { r.events = append(r.events, ev) }
func (r *recorder) Record(*tx.Transfer) {}

func TestRoles(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	rec := &recorder{}
	r := New(solidity.NewContext(bicash.NameToAddress("Boardroom"), state.NewStater(db).NewState(), rec))

	owner, operator, other := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, r.Set(Owner, owner))
	require.NoError(t, r.Set(Operator, operator))

	assert.NoError(t, r.Require(Operator, operator))
	assert.ErrorIs(t, r.Require(Operator, other), reverts.ErrUnauthorized)
	assert.ErrorIs(t, r.Require(ScaleOperator, bicash.Address{}), reverts.ErrUnauthorized, "unassigned role")

	// only the owner moves the operator role
	assert.ErrorIs(t, r.Transfer(operator, Owner, Operator, other), reverts.ErrUnauthorized)
	assert.ErrorIs(t, r.Transfer(owner, Owner, Operator, bicash.Address{}), reverts.ErrInvalidArgument)
	assert.Empty(t, rec.events)

	require.NoError(t, r.Transfer(owner, Owner, Operator, other))
	holder, err := r.Holder(Operator)
	require.NoError(t, err)
	assert.Equal(t, other, holder)
	assert.ErrorIs(t, r.Require(Operator, operator), reverts.ErrUnauthorized, "old operator loses the role")

	require.Len(t, rec.events, 1)
	assert.Equal(t, []bicash.Bytes32{
		EventRoleTransferred,
		bicash.BytesToBytes32([]byte(Operator)),
		tx.AddressTopic(operator),
		tx.AddressTopic(other),
	}, rec.events[0].Topics)
}
