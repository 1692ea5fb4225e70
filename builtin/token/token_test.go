// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
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

type recorder struct {
	events    tx.Events
	transfers tx.Transfers
}

func (r *recorder) Emit(ev *tx.Event)      { r.events = append(r.events, ev) }
func (r *recorder) Record(tr *tx.Transfer) { r.transfers = append(r.transfers, tr) }

var (
	alice = datagen.RandAddress()
	bob   = datagen.RandAddress()
	carol = datagen.RandAddress()
	duck  = datagen.RandAddress()
)

func newToken(t *testing.T) (*Token, *recorder) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &recorder{}
	tk := New(solidity.NewContext(bicash.NameToAddress("Cash"), state.NewStater(db).NewState(), rec))
	require.NoError(t, tk.Initialize("CASH", alice))
	return tk, rec
}

func balance(t *testing.T, tk *Token, addr bicash.Address) *uint256.Int {
	b, err := tk.BalanceOf(addr)
	require.NoError(t, err)
	return b
}

func TestMintAndCap(t *testing.T) {
	tk, rec := newToken(t)

	name, err := tk.Name()
	require.NoError(t, err)
	assert.Equal(t, "CASH", name)

	assert.ErrorIs(t, tk.Mint(alice, bob, bicash.Tokens(1)), reverts.ErrUnauthorized)
	assert.ErrorIs(t, tk.SetMinter(bob, bob, bicash.Tokens(1)), reverts.ErrUnauthorized)

	require.NoError(t, tk.SetMinter(alice, alice, bicash.Tokens(100)))
	require.NoError(t, tk.Mint(alice, bob, bicash.Tokens(60)))
	assert.ErrorIs(t, tk.Mint(alice, bob, bicash.Tokens(41)), reverts.ErrMinterCap)
	require.NoError(t, tk.Mint(alice, carol, bicash.Tokens(40)))

	remaining, err := tk.MinterCap(alice)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())

	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, bicash.Tokens(100), supply)
	assert.Equal(t, bicash.Tokens(60), balance(t, tk, bob))

	require.Len(t, rec.transfers, 2)
	assert.True(t, rec.transfers[0].Sender.IsZero())
	assert.Equal(t, bob, rec.transfers[0].Recipient)
}

func TestTransferAndAllowance(t *testing.T) {
	tk, rec := newToken(t)
	require.NoError(t, tk.SetMinter(alice, alice, bicash.Tokens(1000)))
	require.NoError(t, tk.Mint(alice, bob, bicash.Tokens(100)))

	assert.ErrorIs(t, tk.Transfer(bob, carol, bicash.Tokens(101)), reverts.ErrInsufficientBalance)
	require.NoError(t, tk.Transfer(bob, carol, bicash.Tokens(30)))
	assert.Equal(t, bicash.Tokens(70), balance(t, tk, bob))
	assert.Equal(t, bicash.Tokens(30), balance(t, tk, carol))

	n := len(rec.transfers)
	require.NoError(t, tk.Transfer(bob, carol, new(uint256.Int)))
	assert.Len(t, rec.transfers, n, "zero transfer has no effect")
	assert.ErrorIs(t, tk.Transfer(bob, bicash.Address{}, bicash.Tokens(1)), reverts.ErrInvalidArgument)

	assert.ErrorIs(t, tk.TransferFrom(duck, bob, duck, bicash.Tokens(1)), reverts.ErrInsufficientAllowance)
	require.NoError(t, tk.Approve(bob, duck, bicash.Tokens(10)))
	require.NoError(t, tk.TransferFrom(duck, bob, duck, bicash.Tokens(4)))
	allowance, err := tk.Allowance(bob, duck)
	require.NoError(t, err)
	assert.Equal(t, bicash.Tokens(6), allowance)
	assert.ErrorIs(t, tk.TransferFrom(duck, bob, duck, bicash.Tokens(7)), reverts.ErrInsufficientAllowance)

	infinite := new(uint256.Int).SetAllOne()
	require.NoError(t, tk.Approve(bob, carol, infinite))
	require.NoError(t, tk.TransferFrom(carol, bob, carol, bicash.Tokens(1)))
	allowance, _ = tk.Allowance(bob, carol)
	assert.Equal(t, infinite, allowance)

	require.NoError(t, tk.Burn(carol, bicash.Tokens(31)))
	assert.True(t, balance(t, tk, carol).IsZero())
	assert.ErrorIs(t, tk.Burn(carol, uint256.NewInt(1)), reverts.ErrInsufficientBalance)
}

func TestElasticScale(t *testing.T) {
	tk, _ := newToken(t)
	require.NoError(t, tk.SetMinter(alice, alice, bicash.Tokens(100000)))
	require.NoError(t, tk.Mint(alice, bob, bicash.Tokens(1000)))
	require.NoError(t, tk.Mint(alice, carol, bicash.Tokens(100)))

	assert.ErrorIs(t, tk.SetScale(alice, uint256.NewInt(2000000)), reverts.ErrUnauthorized)
	assert.ErrorIs(t, tk.SetScaleOperator(bob, bob), reverts.ErrUnauthorized)
	require.NoError(t, tk.SetScaleOperator(alice, alice))
	assert.ErrorIs(t, tk.SetScale(alice, new(uint256.Int)), reverts.ErrInvalidArgument)
	require.NoError(t, tk.SetScale(alice, uint256.NewInt(2000000)))

	assert.Equal(t, bicash.Tokens(2000), balance(t, tk, bob))
	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, bicash.Tokens(2200), supply)

	require.NoError(t, tk.Transfer(carol, duck, bicash.Tokens(50)))
	assert.Equal(t, bicash.Tokens(50), balance(t, tk, duck))
	assert.Equal(t, bicash.Tokens(150), balance(t, tk, carol))
}

func TestRawRounding(t *testing.T) {
	scale := uint256.NewInt(3000000)
	raw, err := toRaw(uint256.NewInt(10), scale, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), raw.Uint64(), "rounds up")

	face, err := toFace(raw, scale)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), face.Uint64())

	raw, _ = toRaw(uint256.NewInt(10), scale, false)
	assert.Equal(t, uint64(3), raw.Uint64(), "rounds down")

	raw, _ = toRaw(uint256.NewInt(9), scale, true)
	assert.Equal(t, uint64(3), raw.Uint64())
}

func TestRebasedTransfersNeverOverdraw(t *testing.T) {
	tk, _ := newToken(t)
	require.NoError(t, tk.SetMinter(alice, alice, bicash.Tokens(100)))
	require.NoError(t, tk.SetScaleOperator(alice, alice))
	require.NoError(t, tk.SetScale(alice, uint256.NewInt(700000)))

	// 10 face mints 14 raw, worth 9 face
	require.NoError(t, tk.Mint(alice, bob, uint256.NewInt(10)))
	held := balance(t, tk, bob)
	assert.Equal(t, uint64(9), held.Uint64())

	// paying out the face balance in parts never overdraws
	require.NoError(t, tk.Transfer(bob, carol, uint256.NewInt(5)))
	assert.Equal(t, uint64(4), balance(t, tk, bob).Uint64())
	require.NoError(t, tk.Transfer(bob, duck, uint256.NewInt(4)))
	assert.Equal(t, uint64(1), balance(t, tk, bob).Uint64(), "rounding dust stays with the sender")
	assert.Equal(t, uint64(4), balance(t, tk, carol).Uint64())
	assert.Equal(t, uint64(3), balance(t, tk, duck).Uint64())

	require.NoError(t, tk.Burn(carol, uint256.NewInt(4)))
	assert.True(t, balance(t, tk, carol).IsZero())
}

func TestTransferOwnership(t *testing.T) {
	tk, _ := newToken(t)
	assert.ErrorIs(t, tk.TransferOwnership(bob, bob), reverts.ErrUnauthorized)
	require.NoError(t, tk.TransferOwnership(alice, bob))
	assert.ErrorIs(t, tk.SetMinter(alice, alice, bicash.Tokens(1)), reverts.ErrUnauthorized)
	assert.NoError(t, tk.SetMinter(bob, alice, bicash.Tokens(1)))
}
