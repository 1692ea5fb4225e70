// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/BicashFinance/bicash-protocol/bicash"
)

// Output is the result of executing a clause.
type Output struct {
	// value returned by the method, nil for mutations without result
	Data any
	// reverted calls carry neither events nor transfers
	Reverted     bool
	RevertReason string
	Events       Events
	Transfers    Transfers
}

// Receipt records an admitted call.
type Receipt struct {
	Seq         uint64
	ID          bicash.Bytes32
	BlockNumber uint32
	BlockTime   uint64
	Caller      bicash.Address
	Clause      *Clause
	*Output
}
