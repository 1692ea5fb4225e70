// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/tx"
)

const (
	insertEvent     = "INSERT OR REPLACE INTO event(" + eventColumns + ") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	insertTransfer  = "INSERT OR REPLACE INTO transfer(" + transferColumns + ") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)"
	deleteEvents    = "DELETE FROM event WHERE seq >= ?"
	deleteTransfers = "DELETE FROM transfer WHERE seq >= ?"
)

var writerQueries = []string{insertEvent, insertTransfer, deleteEvents, deleteTransfers}

// Writer accumulates logs of admitted calls in a sql transaction.
type Writer struct {
	db        *sql.DB
	stmtCache *stmtCache
	tx        *sql.Tx
	len       int
}

func (w *Writer) exec(query string, args ...any) error {
	stmt, err := w.stmtCache.Prepare(query)
	if err != nil {
		return err
	}
	if w.tx == nil {
		tx, err := w.db.Begin()
		if err != nil {
			return err
		}
		w.tx = tx
	}
	if _, err := w.tx.Stmt(stmt).Exec(args...); err != nil {
		return err
	}
	w.len++
	return nil
}

func topicValue(topics []bicash.Bytes32, i int) []byte {
	if i >= len(topics) {
		return nil
	}
	return topics[i].Bytes()
}

// Write writes all logs of the given receipt. Reverted receipts carry none.
func (w *Writer) Write(receipt *tx.Receipt) error {
	if receipt.Output == nil {
		return nil
	}
	for i, ev := range receipt.Events {
		topics := ev.Topics
		if err := w.exec(insertEvent,
			newSequence(receipt.Seq, uint32(i)),
			receipt.ID.Bytes(),
			receipt.BlockNumber,
			receipt.BlockTime,
			receipt.Caller.Bytes(),
			ev.Address.Bytes(),
			topicValue(topics, 0),
			topicValue(topics, 1),
			topicValue(topics, 2),
			topicValue(topics, 3),
			topicValue(topics, 4),
			ev.Data,
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}
	for i, tr := range receipt.Transfers {
		if err := w.exec(insertTransfer,
			newSequence(receipt.Seq, uint32(i)),
			receipt.ID.Bytes(),
			receipt.BlockNumber,
			receipt.BlockTime,
			receipt.Caller.Bytes(),
			tr.Token.Bytes(),
			tr.Sender.Bytes(),
			tr.Recipient.Bytes(),
			tr.Amount.PaddedBytes(32),
		); err != nil {
			return errors.Wrap(err, "insert transfer")
		}
	}
	return nil
}

// Truncate deletes the logs of calls from callSeq on (included).
func (w *Writer) Truncate(callSeq uint64) error {
	from := newSequence(min(callSeq, MaxCallSeq), 0)
	if err := w.exec(deleteEvents, from); err != nil {
		return errors.Wrap(err, "truncate events")
	}
	if err := w.exec(deleteTransfers, from); err != nil {
		return errors.Wrap(err, "truncate transfers")
	}
	return nil
}

// Commit commits accumulated logs.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	w.tx, w.len = nil, 0
	return err
}

// Rollback rollbacks all uncommitted logs.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Rollback()
	w.tx, w.len = nil, 0
	return err
}

// UncommittedCount returns the count of uncommitted statements.
func (w *Writer) UncommittedCount() int {
	return w.len
}
