// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boardroom

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
	"github.com/BicashFinance/bicash-protocol/builtin/token"
	"github.com/BicashFinance/bicash-protocol/lvldb"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/test/datagen"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

type recorder struct {
	events    tx.Events
	transfers tx.Transfers
}

func (r *recorder) Emit(ev *tx.Event)      { r.events = append(r.events, ev) }
func (r *recorder) Record(tr *tx.Transfer) { r.transfers = append(r.transfers, tr) }

func (r *recorder) eventsOf(id bicash.Bytes32) (out tx.Events) {
	for _, ev := range r.events {
		if ev.Topics[0] == id {
			out = append(out, ev)
		}
	}
	return
}

var infinite = new(uint256.Int).SetAllOne()

type fixture struct {
	state    *state.State
	blockCtx *xenv.BlockContext
	rec      *recorder
	owner    bicash.Address
	operator bicash.Address
	share    *token.Token
	cash     *token.Token
	board    *Boardroom
}

func newFixture(t *testing.T, lockup uint64) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		state:    state.NewStater(db).NewState(),
		blockCtx: &xenv.BlockContext{Number: 1, Time: 1000},
		rec:      &recorder{},
		owner:    datagen.RandAddress(),
		operator: datagen.RandAddress(),
	}
	f.share = token.New(solidity.NewContext(bicash.NameToAddress("Share"), f.state, f.rec))
	f.cash = token.New(solidity.NewContext(bicash.NameToAddress("Cash"), f.state, f.rec))
	f.board = New(solidity.NewContext(bicash.NameToAddress("Boardroom"), f.state, f.rec), f.blockCtx, f.share, f.cash)

	require.NoError(t, f.share.Initialize("Share", f.owner))
	require.NoError(t, f.cash.Initialize("Cash", f.owner))
	require.NoError(t, f.share.SetMinter(f.owner, f.owner, infinite))
	require.NoError(t, f.cash.SetMinter(f.owner, f.owner, infinite))
	require.NoError(t, f.board.Initialize(f.owner, f.operator, bicash.DefaultRewardScaleDecimals, lockup))

	// the operator funds allocations out of its own Cash
	require.NoError(t, f.cash.Mint(f.owner, f.operator, bicash.Tokens(1_000_000)))
	require.NoError(t, f.cash.Approve(f.operator, f.board.Address(), infinite))
	return f
}

// newStaker returns an address holding shares and having approved the boardroom.
func (f *fixture) newStaker(t *testing.T, shares *uint256.Int) bicash.Address {
	staker := datagen.RandAddress()
	require.NoError(t, f.share.Mint(f.owner, staker, shares))
	require.NoError(t, f.share.Approve(staker, f.board.Address(), infinite))
	return staker
}

func (f *fixture) advance(blocks uint32) {
	f.blockCtx.Number += blocks
	f.blockCtx.Time += uint64(blocks) * bicash.BlockInterval
}

type TestFunc func(t *testing.T)

// TestSequence scripts boardroom operations and checks.
type TestSequence struct {
	f     *fixture
	funcs []TestFunc
}

func NewSequence(f *fixture) *TestSequence {
	return &TestSequence{f: f}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(staker bicash.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.f.board.Stake(staker, bicash.Tokens(amount)), "stake %d", amount)
	})
}

func (st *TestSequence) Withdraw(staker bicash.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.f.board.Withdraw(staker, bicash.Tokens(amount)), "withdraw %d", amount)
	})
}

func (st *TestSequence) Allocate(amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.f.board.AllocateSeigniorage(st.f.operator, bicash.Tokens(amount)), "allocate %d", amount)
	})
}

func (st *TestSequence) Advance(blocks uint32) *TestSequence {
	return st.AddFunc(func(*testing.T) { st.f.advance(blocks) })
}

func (st *TestSequence) Claim(staker bicash.Address, want uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		paid, err := st.f.board.Claim(staker)
		require.NoError(t, err)
		assert.Equal(t, bicash.Tokens(want).Dec(), paid.Dec(), "claim")
	})
}

func (st *TestSequence) AssertClaimable(staker bicash.Address, want uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		got, err := st.f.board.ClaimableOf(staker)
		require.NoError(t, err)
		assert.Equal(t, bicash.Tokens(want).Dec(), got.Dec(), "claimable")
	})
}

func (st *TestSequence) AssertStaked(staker bicash.Address, want uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		got, err := st.f.board.StakedBalanceOf(staker)
		require.NoError(t, err)
		assert.Equal(t, bicash.Tokens(want).Dec(), got.Dec(), "staked")
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
	}
}
