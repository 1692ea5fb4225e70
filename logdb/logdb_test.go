// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/logdb"
	"github.com/BicashFinance/bicash-protocol/test/datagen"
	"github.com/BicashFinance/bicash-protocol/tx"
)

var (
	contractA = bicash.NameToAddress("A")
	contractB = bicash.NameToAddress("B")
	topicX    = tx.EventID("X(uint256)")
	topicY    = tx.EventID("Y(uint256)")
)

func newReceipt(seq uint64, caller bicash.Address, events tx.Events, transfers tx.Transfers) *tx.Receipt {
	return &tx.Receipt{
		Seq:         seq,
		ID:          datagen.RandomHash(),
		BlockNumber: uint32(seq / 2),
		BlockTime:   1000 + seq*10,
		Caller:      caller,
		Output:      &tx.Output{Events: events, Transfers: transfers},
	}
}

// writeReceipts writes n receipts, each with two events and one transfer.
func writeReceipts(t *testing.T, db *logdb.LogDB, n int, caller bicash.Address) []*tx.Receipt {
	w := db.NewWriter()
	var receipts []*tx.Receipt
	for i := 1; i <= n; i++ {
		r := newReceipt(uint64(i), caller, tx.Events{
			{Address: contractA, Topics: []bicash.Bytes32{topicX, tx.AddressTopic(caller)}, Data: tx.EncodeAmounts(uint256.NewInt(uint64(i)))},
			{Address: contractB, Topics: []bicash.Bytes32{topicY}},
		}, tx.Transfers{
			{Token: contractA, Sender: caller, Recipient: contractB, Amount: uint256.NewInt(uint64(i))},
		})
		require.NoError(t, w.Write(r))
		receipts = append(receipts, r)
	}
	assert.Equal(t, 3*n, w.UncommittedCount())
	require.NoError(t, w.Commit())
	assert.Equal(t, 0, w.UncommittedCount())
	return receipts
}

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	caller := datagen.RandAddress()
	receipts := writeReceipts(t, db, 10, caller)

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)
	assert.Equal(t, uint64(1), all[0].CallSeq)
	assert.Equal(t, uint32(0), all[0].Index)
	assert.Equal(t, uint32(1), all[1].Index)
	assert.Equal(t, receipts[0].ID, all[0].CallID)
	assert.Equal(t, caller, all[0].Caller)
	assert.Equal(t, topicX, *all[0].Topics[0])
	assert.Equal(t, tx.AddressTopic(caller), *all[0].Topics[1])
	assert.Nil(t, all[0].Topics[2])

	byAddr, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &contractB}},
	})
	require.NoError(t, err)
	assert.Len(t, byAddr, 10)
	for _, ev := range byAddr {
		assert.Equal(t, contractB, ev.Address)
	}

	// criteria are or-ed
	either, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{
			{Topics: [5]*bicash.Bytes32{&topicX}},
			{Topics: [5]*bicash.Bytes32{&topicY}},
		},
		Range: &logdb.Range{Unit: logdb.Seq, From: 3, To: 4},
	})
	require.NoError(t, err)
	assert.Len(t, either, 4)

	desc, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		Order:   logdb.DESC,
		Options: &logdb.Options{Offset: 1, Limit: 3},
	})
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, uint64(10), desc[0].CallSeq)
	assert.Equal(t, uint32(0), desc[0].Index)
	assert.Equal(t, uint64(9), desc[1].CallSeq)

	byTime, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range: &logdb.Range{Unit: logdb.Time, From: 1100},
	})
	require.NoError(t, err)
	assert.Len(t, byTime, 2)

	byBlock, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range: &logdb.Range{Unit: logdb.Block, From: 1, To: 1},
	})
	require.NoError(t, err)
	assert.Len(t, byBlock, 4)
}

func TestTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	receipts := writeReceipts(t, db, 3, alice)

	w := db.NewWriter()
	require.NoError(t, w.Write(newReceipt(4, bob, nil, tx.Transfers{
		{Token: contractB, Sender: bicash.Address{}, Recipient: bob, Amount: bicash.Tokens(7)},
	})))
	require.NoError(t, w.Commit())

	all, err := db.FilterTransfers(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, bicash.Tokens(7), all[3].Amount)
	assert.True(t, all[3].Sender.IsZero())

	byCaller, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Caller: &alice}},
	})
	require.NoError(t, err)
	assert.Len(t, byCaller, 3)

	byToken, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Token: &contractB}, {Recipient: &bob}},
	})
	require.NoError(t, err)
	assert.Len(t, byToken, 1)

	byID, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{CallID: &receipts[1].ID})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, uint256.NewInt(2), byID[0].Amount)
}

func TestRevertedReceiptWritesNothing(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	w := db.NewWriter()
	require.NoError(t, w.Write(&tx.Receipt{Seq: 1, Output: &tx.Output{Reverted: true}}))
	require.NoError(t, w.Write(&tx.Receipt{Seq: 2}))
	assert.Equal(t, 0, w.UncommittedCount())
	require.NoError(t, w.Commit())

	_, ok, err := db.NewestCallSeq()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRollbackAndTruncate(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	caller := datagen.RandAddress()
	writeReceipts(t, db, 5, caller)

	seq, ok, err := db.NewestCallSeq()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), seq)

	w := db.NewWriter()
	require.NoError(t, w.Write(newReceipt(6, caller, tx.Events{{Address: contractA}}, nil)))
	require.NoError(t, w.Rollback())
	seq, _, err = db.NewestCallSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), seq)

	require.NoError(t, w.Truncate(4))
	require.NoError(t, w.Commit())
	seq, _, err = db.NewestCallSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), seq)

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 6)
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	db, err := logdb.New(path)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())
	writeReceipts(t, db, 2, datagen.RandAddress())
	require.NoError(t, db.Close())

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 4)
}
