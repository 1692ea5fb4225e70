// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

// Config describes the genesis of a ledger.
type Config struct {
	Name                 string         `yaml:"name"`
	Timestamp            uint64         `yaml:"timestamp"`
	Owner                bicash.Address `yaml:"owner"`
	Operator             bicash.Address `yaml:"operator"`
	RewardScaleDecimals  uint64         `yaml:"reward-scale-decimals"`
	WithdrawLockupBlocks uint64         `yaml:"withdraw-lockup-blocks"`
	// TreasuryMintCap bounds the Cash the treasury can ever mint. Zero means unbounded.
	TreasuryMintCap *uint256.Int `yaml:"treasury-mint-cap"`
	Accounts        []Account    `yaml:"accounts"`
}

// Account is a pre-funded account.
type Account struct {
	Address bicash.Address `yaml:"address"`
	Cash    *uint256.Int   `yaml:"cash"`
	Share   *uint256.Int   `yaml:"share"`
}

// Normalize fills unset values with their defaults.
func (c *Config) Normalize() {
	if c.RewardScaleDecimals == 0 {
		c.RewardScaleDecimals = bicash.DefaultRewardScaleDecimals
	}
	if c.TreasuryMintCap == nil || c.TreasuryMintCap.IsZero() {
		c.TreasuryMintCap = new(uint256.Int).SetAllOne()
	}
	for i := range c.Accounts {
		if c.Accounts[i].Cash == nil {
			c.Accounts[i].Cash = new(uint256.Int)
		}
		if c.Accounts[i].Share == nil {
			c.Accounts[i].Share = new(uint256.Int)
		}
	}
}

// Validate checks the config, filling defaults.
func (c *Config) Validate() error {
	c.Normalize()
	if c.Owner.IsZero() {
		return errors.New("owner required")
	}
	if c.Operator.IsZero() {
		return errors.New("operator required")
	}
	if c.RewardScaleDecimals < bicash.MinRewardScaleDecimals || c.RewardScaleDecimals > bicash.MaxRewardScaleDecimals {
		return errors.Errorf("reward-scale-decimals must be within [%d, %d]",
			bicash.MinRewardScaleDecimals, bicash.MaxRewardScaleDecimals)
	}
	seen := make(map[bicash.Address]bool)
	for _, acc := range c.Accounts {
		if acc.Address.IsZero() {
			return errors.New("account address required")
		}
		if seen[acc.Address] {
			return errors.Errorf("duplicated account %v", acc.Address)
		}
		seen[acc.Address] = true
	}
	return nil
}

// id hashes the normalized config.
func (c *Config) id() (bicash.Bytes32, error) {
	data, err := rlp.EncodeToBytes(c)
	if err != nil {
		return bicash.Bytes32{}, errors.Wrap(err, "encode genesis config")
	}
	return bicash.Blake2b(data), nil
}
