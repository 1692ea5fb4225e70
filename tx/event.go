// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

// MaxTopics is the max count of topics of an event.
const MaxTopics = 5

// Event represents a contract event log. Topics[0] is the event id.
type Event struct {
	// address of the contract that generates the event
	Address bicash.Address
	// list of topics provided by the contract
	Topics []bicash.Bytes32
	// supplied by the contract, usually RLP-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// EventID returns the id of an event from its signature, e.g. "Staked(address,uint256)".
func EventID(signature string) bicash.Bytes32 {
	return bicash.Keccak256([]byte(signature))
}

// AddressTopic converts an address into a topic.
func AddressTopic(addr bicash.Address) bicash.Bytes32 {
	return bicash.BytesToBytes32(addr.Bytes())
}

// EncodeAmounts encodes amounts as event data.
func EncodeAmounts(amounts ...*uint256.Int) []byte {
	data, err := rlp.EncodeToBytes(amounts)
	if err != nil {
		panic(err) // uint256 encoding never fails
	}
	return data
}

// DecodeAmounts decodes event data produced by EncodeAmounts.
func DecodeAmounts(data []byte) ([]*uint256.Int, error) {
	var amounts []*uint256.Int
	if err := rlp.DecodeBytes(data, &amounts); err != nil {
		return nil, err
	}
	return amounts, nil
}
