// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events and transfers of admitted calls in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/log"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	return open(path, db)
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection would see its own in-memory database
	db.SetMaxOpenConns(1)
	logDB, err := open(":memory:", db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return logDB, nil
}

func open(path string, db *sql.DB) (*LogDB, error) {
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}
	// statements of the writer are prepared up front, since a writer in progress may hold the only connection
	cache := newStmtCache(db)
	for _, query := range writerQueries {
		if _, err := cache.Prepare(query); err != nil {
			cache.Clear()
			return nil, errors.Wrap(err, "prepare statement")
		}
	}
	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     cache,
	}, nil
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// rangeCondition renders r against the columns of a log table.
func rangeCondition(r *Range) (string, []any) {
	switch r.Unit {
	case Seq:
		from := newSequence(min(r.From, MaxCallSeq), 0)
		if r.To < r.From {
			return " AND seq >= ?", []any{from}
		}
		return " AND seq >= ? AND seq <= ?", []any{from, newSequence(min(r.To, MaxCallSeq), maxIndex)}
	case Time:
		if r.To < r.From {
			return " AND blockTime >= ?", []any{r.From}
		}
		return " AND blockTime >= ? AND blockTime <= ?", []any{r.From, r.To}
	default:
		if r.To < r.From {
			return " AND blockNumber >= ?", []any{r.From}
		}
		return " AND blockNumber >= ? AND blockNumber <= ?", []any{r.From, r.To}
	}
}

func orderAndLimit(order Order, options *Options) (string, []any) {
	stmt := " ORDER BY seq ASC"
	if order == DESC {
		stmt = " ORDER BY seq DESC"
	}
	if options == nil {
		return stmt, nil
	}
	limit := options.Limit
	if limit > math.MaxInt64 {
		limit = math.MaxInt64
	}
	return stmt + " LIMIT ?, ?", []any{options.Offset, limit}
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	stmt := "SELECT " + eventColumns + " FROM event WHERE 1"
	if filter == nil {
		return db.queryEvents(ctx, stmt)
	}
	metricsHandleEventsFilter(filter)

	var args []any
	if filter.Range != nil {
		cond, condArgs := rangeCondition(filter.Range)
		stmt += cond
		args = append(args, condArgs...)
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += ")"
	}

	tail, tailArgs := orderAndLimit(filter.Order, filter.Options)
	return db.queryEvents(ctx, stmt+tail, append(args, tailArgs...)...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	stmt := "SELECT " + transferColumns + " FROM transfer WHERE 1"
	if filter == nil {
		return db.queryTransfers(ctx, stmt)
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var args []any
	if filter.Range != nil {
		cond, condArgs := rangeCondition(filter.Range)
		stmt += cond
		args = append(args, condArgs...)
	}
	if filter.CallID != nil {
		args = append(args, filter.CallID.Bytes())
		stmt += " AND callID = ?"
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Token != nil {
			args = append(args, criteria.Token.Bytes())
			stmt += " AND token = ?"
		}
		if criteria.Caller != nil {
			args = append(args, criteria.Caller.Bytes())
			stmt += " AND caller = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ?"
		}
		stmt += ")"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += ")"
	}

	tail, tailArgs := orderAndLimit(filter.Order, filter.Options)
	return db.queryTransfers(ctx, stmt+tail, append(args, tailArgs...)...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         sequence
			callID      []byte
			blockNumber uint32
			blockTime   uint64
			caller      []byte
			address     []byte
			topics      [5][]byte
			data        []byte
		)
		if err := rows.Scan(
			&seq,
			&callID,
			&blockNumber,
			&blockTime,
			&caller,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			CallSeq:     seq.CallSeq(),
			Index:       seq.Index(),
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			CallID:      bicash.BytesToBytes32(callID),
			Caller:      bicash.BytesToAddress(caller),
			Address:     bicash.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := bicash.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         sequence
			callID      []byte
			blockNumber uint32
			blockTime   uint64
			caller      []byte
			token       []byte
			sender      []byte
			recipient   []byte
			amount      []byte
		)
		if err := rows.Scan(
			&seq,
			&callID,
			&blockNumber,
			&blockTime,
			&caller,
			&token,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			CallSeq:     seq.CallSeq(),
			Index:       seq.Index(),
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			CallID:      bicash.BytesToBytes32(callID),
			Caller:      bicash.BytesToAddress(caller),
			Token:       bicash.BytesToAddress(token),
			Sender:      bicash.BytesToAddress(sender),
			Recipient:   bicash.BytesToAddress(recipient),
			Amount:      new(uint256.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// NewestCallSeq returns the sequence of the latest call having logs written.
// The second return value is false if nothing was written.
func (db *LogDB) NewestCallSeq() (uint64, bool, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow(
		"SELECT MAX(seq) FROM (SELECT MAX(seq) AS seq FROM event UNION ALL SELECT MAX(seq) AS seq FROM transfer)",
	).Scan(&seq); err != nil {
		return 0, false, err
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return sequence(seq.Int64).CallSeq(), true, nil
}

// NewWriter creates a log writer.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db.db, stmtCache: db.stmtCache}
}
