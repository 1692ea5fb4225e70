// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// Receipt for json marshal
type Receipt struct {
	Seq         uint64         `json:"seq"`
	ID          bicash.Bytes32 `json:"id"`
	BlockNumber uint32         `json:"blockNumber"`
	BlockTime   uint64         `json:"blockTime"`
	Caller      bicash.Address `json:"caller"`
	Clause      *tx.Clause     `json:"clause"`
	*Output
}

// Output of a call.
type Output struct {
	// value returned by the method
	Data         any         `json:"data"`
	Reverted     bool        `json:"reverted"`
	RevertReason string      `json:"revertReason,omitempty"`
	Events       []*Event    `json:"events"`
	Transfers    []*Transfer `json:"transfers"`
}

// Event emitted by a contract.
type Event struct {
	Address bicash.Address   `json:"address"`
	Topics  []bicash.Bytes32 `json:"topics"`
	Data    hexutil.Bytes    `json:"data"`
}

// Transfer of tokens.
type Transfer struct {
	Token     bicash.Address `json:"token"`
	Sender    bicash.Address `json:"sender"`
	Recipient bicash.Address `json:"recipient"`
	Amount    *uint256.Int   `json:"amount"`
}

// ConvertOutput converts a call output into its json format.
func ConvertOutput(out *tx.Output) *Output {
	o := &Output{
		Data:         out.Data,
		Reverted:     out.Reverted,
		RevertReason: out.RevertReason,
		Events:       make([]*Event, 0, len(out.Events)),
		Transfers:    make([]*Transfer, 0, len(out.Transfers)),
	}
	for _, ev := range out.Events {
		o.Events = append(o.Events, &Event{
			Address: ev.Address,
			Topics:  append([]bicash.Bytes32{}, ev.Topics...),
			Data:    ev.Data,
		})
	}
	for _, tr := range out.Transfers {
		o.Transfers = append(o.Transfers, &Transfer{
			Token:     tr.Token,
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    tr.Amount,
		})
	}
	return o
}

// ConvertReceipt converts a receipt into its json format.
func ConvertReceipt(r *tx.Receipt) *Receipt {
	return &Receipt{
		Seq:         r.Seq,
		ID:          r.ID,
		BlockNumber: r.BlockNumber,
		BlockTime:   r.BlockTime,
		Caller:      r.Caller,
		Clause:      r.Clause,
		Output:      ConvertOutput(r.Output),
	}
}
