// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// Event is an event log of an admitted call.
type Event struct {
	CallSeq     uint64
	Index       uint32
	BlockNumber uint32
	BlockTime   uint64
	CallID      bicash.Bytes32
	Caller      bicash.Address
	Address     bicash.Address // always a contract address
	Topics      [tx.MaxTopics]*bicash.Bytes32
	Data        []byte
}

// Transfer is a token movement of an admitted call.
type Transfer struct {
	CallSeq     uint64
	Index       uint32
	BlockNumber uint32
	BlockTime   uint64
	CallID      bicash.Bytes32
	Caller      bicash.Address
	Token       bicash.Address
	Sender      bicash.Address
	Recipient   bicash.Address
	Amount      *uint256.Int
}

type RangeType string

const (
	Seq   RangeType = "seq"
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds a query, both ends included. To below From means no upper bound.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *bicash.Address // always a contract address
	Topics  [tx.MaxTopics]*bicash.Bytes32
}

type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	Token     *bicash.Address
	Caller    *bicash.Address // who sent the call
	Sender    *bicash.Address // who transferred tokens
	Recipient *bicash.Address // who received tokens
}

type TransferFilter struct {
	CallID      *bicash.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
