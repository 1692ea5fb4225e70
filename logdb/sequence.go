// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// sequence orders logs by the admitted call they belong to, then by their index in the call.
type sequence int64

const (
	indexBits = 20
	maxIndex  = 1<<indexBits - 1
	// MaxCallSeq is the largest call sequence a log can be written with.
	MaxCallSeq = 1<<(63-indexBits) - 1
)

func newSequence(callSeq uint64, index uint32) sequence {
	if index > maxIndex {
		panic("index too large")
	}
	if callSeq > MaxCallSeq {
		panic("call sequence too large")
	}
	return sequence(callSeq<<indexBits) | sequence(index)
}

func (s sequence) CallSeq() uint64 {
	return uint64(s >> indexBits)
}

func (s sequence) Index() uint32 {
	return uint32(s & maxIndex)
}
