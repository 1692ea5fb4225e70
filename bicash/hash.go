// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bicash

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// NewBlake2b return blake2b-256 hash.
func NewBlake2b() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

// Blake2b computes blake2b-256 checksum for given data.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		// the quick version
		return blake2b.Sum256(data[0])
	}
	w := blake2bPool.Get().(*hashState)
	defer blake2bPool.Put(w)
	return w.sum(data)
}

// Keccak256 computes legacy keccak-256 checksum for given data.
func Keccak256(data ...[]byte) Bytes32 {
	w := keccakPool.Get().(*hashState)
	defer keccakPool.Put(w)
	return w.sum(data)
}

type hashState struct {
	hash.Hash
	b32 Bytes32
}

func (w *hashState) sum(data [][]byte) (h Bytes32) {
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(w.b32[:0])
	h = w.b32 // to avoid 1 alloc
	w.Reset()
	return
}

var (
	blake2bPool = sync.Pool{
		New: func() any { return &hashState{Hash: NewBlake2b()} },
	}
	keccakPool = sync.Pool{
		New: func() any { return &hashState{Hash: sha3.NewLegacyKeccak256()} },
	}
)
