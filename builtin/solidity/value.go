// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

func decodeValue[V any](ctx *Context, position bicash.Bytes32) (value V, err error) {
	err = ctx.state.DecodeStorage(ctx.address, position, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func encodeValue[V any](ctx *Context, position bicash.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, position, func() ([]byte, error) {
		if isZero(value) {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}

func isZero(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.IsZero()
}

// Value is a single storage slot holding an RLP encodable value.
// A zero value is stored as an empty slot.
type Value[V any] struct {
	context *Context
	pos     bicash.Bytes32
}

func NewValue[V any](context *Context, pos bicash.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (V, error) {
	return decodeValue[V](v.context, v.pos)
}

func (v *Value[V]) Set(value V) error {
	return encodeValue(v.context, v.pos, value)
}
