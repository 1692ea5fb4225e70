// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

func RandomHash() (b bicash.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr bicash.Address) {
	rand.Read(addr[:])
	return
}

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandTokens returns a random amount between 1 and n whole tokens.
func RandTokens(n int) *uint256.Int {
	return bicash.Tokens(uint64(RandIntN(n) + 1))
}
