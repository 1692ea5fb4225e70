// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

// Transfer is a token movement. A zero Sender is a mint, a zero Recipient a burn.
type Transfer struct {
	Token     bicash.Address
	Sender    bicash.Address
	Recipient bicash.Address
	Amount    *uint256.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer
