// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bicash

import (
	"github.com/holiman/uint256"
)

// Constants of the ledger.
const (
	BlockInterval uint64 = 10 // default time interval in seconds between two consecutive blocks.

	TokenDecimals = 18 // decimals of Cash and Share.

	DefaultRewardScaleDecimals = 36 // reward-per-share is kept with this many decimals.
	MinRewardScaleDecimals     = 19 // must stay finer than the token precision.
	MaxRewardScaleDecimals     = 60

	ScaleBaseDecimals = 6 // elastic token scale factor precision.
)

var (
	// ScaleBase is the neutral scale factor of elastic tokens.
	ScaleBase = Pow10(ScaleBaseDecimals)
	// DefaultRewardScale is the default fixed point multiplier of reward-per-share.
	DefaultRewardScale = Pow10(DefaultRewardScaleDecimals)
)

// Pow10 returns 10^n. It panics if the result does not fit in 256 bits.
func Pow10(n uint64) *uint256.Int {
	if n > 77 {
		panic("pow10 out of range")
	}
	ten := uint256.NewInt(10)
	return new(uint256.Int).Exp(ten, uint256.NewInt(n))
}

// Tokens converts whole tokens into base units.
func Tokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Pow10(TokenDecimals))
}
