// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/logdb"
)

// readBatch bounds the calls covered by a single read.
const readBatch = 256

type msgReader interface {
	// Read returns the messages after the position and whether more are pending.
	Read(ctx context.Context) ([]any, bool, error)
}

// seqWindow advances a position over admitted calls, batch by batch.
type seqWindow struct {
	ledger *ledger.Ledger
	pos    uint64
}

// next returns the range of calls to read, false if none.
func (w *seqWindow) next() (*logdb.Range, bool) {
	head := w.ledger.Head().Seq
	if head <= w.pos {
		return nil, false
	}
	to := min(head, w.pos+readBatch)
	return &logdb.Range{Unit: logdb.Seq, From: w.pos + 1, To: to}, true
}

func (w *seqWindow) advance(r *logdb.Range) bool {
	w.pos = r.To
	return w.ledger.Head().Seq > w.pos
}

type eventReader struct {
	seqWindow
	criteria *logdb.EventCriteria
}

func newEventReader(ledger *ledger.Ledger, pos uint64, criteria *logdb.EventCriteria) *eventReader {
	return &eventReader{seqWindow{ledger, pos}, criteria}
}

func (er *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	r, ok := er.next()
	if !ok {
		return nil, false, nil
	}
	events, err := er.ledger.LogDB().FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{er.criteria},
		Range:       r,
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, types.ConvertEvent(ev))
	}
	return msgs, er.advance(r), nil
}

type transferReader struct {
	seqWindow
	criteria *logdb.TransferCriteria
}

func newTransferReader(ledger *ledger.Ledger, pos uint64, criteria *logdb.TransferCriteria) *transferReader {
	return &transferReader{seqWindow{ledger, pos}, criteria}
}

func (tr *transferReader) Read(ctx context.Context) ([]any, bool, error) {
	r, ok := tr.next()
	if !ok {
		return nil, false, nil
	}
	transfers, err := tr.ledger.LogDB().FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{tr.criteria},
		Range:       r,
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(transfers))
	for _, t := range transfers {
		msgs = append(msgs, types.ConvertTransfer(t))
	}
	return msgs, tr.advance(r), nil
}

// headReader reports the latest head once it moves.
type headReader struct {
	ledger *ledger.Ledger
	pos    uint64
}

func (hr *headReader) Read(context.Context) ([]any, bool, error) {
	head := hr.ledger.Head()
	if head.Seq <= hr.pos {
		return nil, false, nil
	}
	hr.pos = head.Seq
	return []any{&head}, false, nil
}
