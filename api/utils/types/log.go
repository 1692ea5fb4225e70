// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/logdb"
)

// LogMeta locates a log in the ledger.
type LogMeta struct {
	CallSeq     uint64         `json:"callSeq"`
	LogIndex    uint32         `json:"logIndex"`
	CallID      bicash.Bytes32 `json:"callID"`
	Caller      bicash.Address `json:"caller"`
	BlockNumber uint32         `json:"blockNumber"`
	BlockTime   uint64         `json:"blockTime"`
}

type FilteredEvent struct {
	Address bicash.Address    `json:"address"`
	Topics  []*bicash.Bytes32 `json:"topics"`
	Data    hexutil.Bytes     `json:"data"`
	Meta    LogMeta           `json:"meta"`
}

type FilteredTransfer struct {
	Token     bicash.Address `json:"token"`
	Sender    bicash.Address `json:"sender"`
	Recipient bicash.Address `json:"recipient"`
	Amount    *uint256.Int   `json:"amount"`
	Meta      LogMeta        `json:"meta"`
}

// ConvertEvent converts an event log into its json format.
func ConvertEvent(ev *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: ev.Address,
		Data:    ev.Data,
		Meta: LogMeta{
			CallSeq:     ev.CallSeq,
			LogIndex:    ev.Index,
			CallID:      ev.CallID,
			Caller:      ev.Caller,
			BlockNumber: ev.BlockNumber,
			BlockTime:   ev.BlockTime,
		},
	}
	fe.Topics = make([]*bicash.Bytes32, 0)
	for i := range ev.Topics {
		if ev.Topics[i] != nil {
			fe.Topics = append(fe.Topics, ev.Topics[i])
		}
	}
	return fe
}

// ConvertTransfer converts a transfer log into its json format.
func ConvertTransfer(tr *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Token:     tr.Token,
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    tr.Amount,
		Meta: LogMeta{
			CallSeq:     tr.CallSeq,
			LogIndex:    tr.Index,
			CallID:      tr.CallID,
			Caller:      tr.Caller,
			BlockNumber: tr.BlockNumber,
			BlockTime:   tr.BlockTime,
		},
	}
}

// Range bounds a query. Omitted ends are open.
type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *bicash.Address `json:"address"`
	Topic0  *bicash.Bytes32 `json:"topic0"`
	Topic1  *bicash.Bytes32 `json:"topic1"`
	Topic2  *bicash.Bytes32 `json:"topic2"`
	Topic3  *bicash.Bytes32 `json:"topic3"`
	Topic4  *bicash.Bytes32 `json:"topic4"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type TransferCriteria struct {
	Token     *bicash.Address `json:"token"`
	Caller    *bicash.Address `json:"caller"`
	Sender    *bicash.Address `json:"sender"`
	Recipient *bicash.Address `json:"recipient"`
}

type TransferFilter struct {
	CallID      *bicash.Bytes32     `json:"callID"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *Range              `json:"range"`
	Options     *Options            `json:"options"`
	Order       logdb.Order         `json:"order"`
}

// ConvertRange converts the json range to a logdb range.
func ConvertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	out := &logdb.Range{From: 0, To: math.MaxInt64}
	switch logdb.RangeType(r.Unit) {
	case "", logdb.Block:
		out.Unit = logdb.Block
	case logdb.Seq:
		out.Unit = logdb.Seq
		out.To = logdb.MaxCallSeq
	case logdb.Time:
		out.Unit = logdb.Time
	default:
		return nil, fmt.Errorf("unknown range unit %q", r.Unit)
	}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = min(*r.To, out.To)
	}
	if out.From > out.To {
		return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return out, nil
}

func convertOrder(order logdb.Order) (logdb.Order, error) {
	switch order {
	case "", logdb.ASC:
		return logdb.ASC, nil
	case logdb.DESC:
		return logdb.DESC, nil
	}
	return "", fmt.Errorf("unknown order %q", order)
}

func convertOptions(opts *Options) *logdb.Options {
	if opts == nil {
		return nil
	}
	return &logdb.Options{Offset: opts.Offset, Limit: opts.Limit}
}

// ConvertEventFilter converts the json filter to a logdb filter.
func ConvertEventFilter(ef *EventFilter) (*logdb.EventFilter, error) {
	r, err := ConvertRange(ef.Range)
	if err != nil {
		return nil, err
	}
	order, err := convertOrder(ef.Order)
	if err != nil {
		return nil, err
	}
	f := &logdb.EventFilter{
		Range:   r,
		Options: convertOptions(ef.Options),
		Order:   order,
	}
	for i, c := range ef.CriteriaSet {
		if c == nil {
			return nil, fmt.Errorf("criteriaSet[%d]: null not allowed", i)
		}
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [5]*bicash.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4},
		})
	}
	return f, nil
}

// ConvertTransferFilter converts the json filter to a logdb filter.
func ConvertTransferFilter(tf *TransferFilter) (*logdb.TransferFilter, error) {
	r, err := ConvertRange(tf.Range)
	if err != nil {
		return nil, err
	}
	order, err := convertOrder(tf.Order)
	if err != nil {
		return nil, err
	}
	f := &logdb.TransferFilter{
		CallID:  tf.CallID,
		Range:   r,
		Options: convertOptions(tf.Options),
		Order:   order,
	}
	for i, c := range tf.CriteriaSet {
		if c == nil {
			return nil, fmt.Errorf("criteriaSet[%d]: null not allowed", i)
		}
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			Token:     c.Token,
			Caller:    c.Caller,
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}
	return f, nil
}
