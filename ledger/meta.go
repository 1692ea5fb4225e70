// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/kv"
)

const metaBucket = kv.Bucket("m")

var (
	genesisIDKey = []byte("genesis-id")
	headKey      = []byte("head")
	noncePrefix  = []byte("nonce-")
)

// Head is the latest admitted call. Seq 0 is the genesis.
type Head struct {
	Seq         uint64         `json:"seq"`
	ID          bicash.Bytes32 `json:"id"`
	BlockNumber uint32         `json:"blockNumber"`
	BlockTime   uint64         `json:"blockTime"`
}

func loadHead(getter kv.Getter) (*Head, error) {
	data, err := getter.Get(headKey)
	if err != nil {
		return nil, err
	}
	var head Head
	if err := rlp.DecodeBytes(data, &head); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	return &head, nil
}

func saveHead(putter kv.Putter, head *Head) error {
	data, err := rlp.EncodeToBytes(head)
	if err != nil {
		return errors.Wrap(err, "encode head")
	}
	return putter.Put(headKey, data)
}

func loadGenesisID(getter kv.Getter) (bicash.Bytes32, bool, error) {
	data, err := getter.Get(genesisIDKey)
	if err != nil {
		if getter.IsNotFound(err) {
			return bicash.Bytes32{}, false, nil
		}
		return bicash.Bytes32{}, false, err
	}
	return bicash.BytesToBytes32(data), true, nil
}

func nonceKey(addr bicash.Address) []byte {
	return append(append([]byte(nil), noncePrefix...), addr.Bytes()...)
}

// loadNonce returns the count of calls admitted from addr.
func loadNonce(getter kv.Getter, addr bicash.Address) (uint64, error) {
	data, err := getter.Get(nonceKey(addr))
	if err != nil {
		if getter.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(data) != 8 {
		return 0, errors.New("corrupted nonce")
	}
	return binary.BigEndian.Uint64(data), nil
}

func saveNonce(putter kv.Putter, addr bicash.Address, nonce uint64) error {
	var data [8]byte
	binary.BigEndian.PutUint64(data[:], nonce)
	return putter.Put(nonceKey(addr), data[:])
}
