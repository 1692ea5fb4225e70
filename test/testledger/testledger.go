// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds in-memory ledgers on the dev network for tests.
package testledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/genesis"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/logdb"
	"github.com/BicashFinance/bicash-protocol/lvldb"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// BlockInterval of test ledgers in seconds.
const BlockInterval = 10

// Clock is a manually advanced clock.
type Clock struct {
	lock sync.Mutex
	now  time.Time
}

func (c *Clock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Advance moves the clock forward by n blocks.
func (c *Clock) Advance(n int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(time.Duration(n*BlockInterval) * time.Second)
}

type Ledger struct {
	*ledger.Ledger
	DB    *lvldb.LevelDB
	LogDB *logdb.LogDB
	Clock *Clock
	t     *testing.T
}

// New creates a dev network ledger closed when t finishes.
func New(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	gene := genesis.NewDevnet()
	clock := &Clock{now: time.Unix(int64(gene.Timestamp()), 0)}
	l, err := ledger.New(db, logDB, gene, ledger.Options{BlockInterval: BlockInterval, Clock: clock.Now})
	require.NoError(t, err)
	return &Ledger{Ledger: l, DB: db, LogDB: logDB, Clock: clock, t: t}
}

// Call admits a call and fails the test on infrastructure errors only.
func (l *Ledger) Call(caller, to bicash.Address, method string, args any) *tx.Receipt {
	clause := tx.NewClause(to).WithMethod(method)
	if args != nil {
		clause = clause.MustWithArgs(args)
	}
	receipt, err := l.Execute(caller, clause)
	require.NoError(l.t, err)
	return receipt
}

// MustCall admits a call expected to succeed.
func (l *Ledger) MustCall(caller, to bicash.Address, method string, args any) *tx.Receipt {
	receipt := l.Call(caller, to, method, args)
	require.False(l.t, receipt.Reverted, receipt.RevertReason)
	return receipt
}

// Stake approves and stakes whole Share tokens.
func (l *Ledger) Stake(staker bicash.Address, tokens uint64) {
	l.MustCall(staker, builtin.Share.Address, "approve", map[string]any{
		"spender": builtin.Boardroom.Address,
		"amount":  bicash.Tokens(tokens),
	})
	l.MustCall(staker, builtin.Boardroom.Address, "stake", map[string]any{"amount": bicash.Tokens(tokens)})
}

// Allocate hands whole Cash tokens to the boardroom through the treasury.
func (l *Ledger) Allocate(tokens uint64) {
	l.MustCall(genesis.DevAccounts()[0], builtin.Treasury.Address, "allocateSeigniorage", map[string]any{
		"amount": bicash.Tokens(tokens),
	})
}
