// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key adapts an integer to a mapping key.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// StringKey adapts a string to a mapping key.
type StringKey string

func (k StringKey) Bytes() []byte {
	return []byte(k)
}

// Mapping is a key/value storage abstraction for builtin contracts, similar to the mapping in Solidity.
// Values live at blake2b(key, basePos). Absent keys read as the zero value of V.
type Mapping[K Key, V any] struct {
	context *Context
	basePos bicash.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos bicash.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) bicash.Bytes32 {
	return bicash.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (V, error) {
	return decodeValue[V](m.context, m.position(key))
}

// Set stores value under key. Storing the zero value clears the entry.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return encodeValue(m.context, m.position(key), value)
}
