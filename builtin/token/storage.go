// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
)

var (
	slotName        = nameToSlot("name")
	slotTotalSupply = nameToSlot("total-supply")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
	slotMinters     = nameToSlot("minters")
	slotScale       = nameToSlot("scale")
)

func nameToSlot(name string) bicash.Bytes32 {
	return bicash.BytesToBytes32([]byte(name))
}

type allowanceKey struct {
	owner   bicash.Address
	spender bicash.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// storage represents the root storage of a token contract.
// Balances and the total supply are kept in raw units, see Token.
type storage struct {
	name        *solidity.Value[string]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[bicash.Address, *uint256.Int]
	allowances  *solidity.Mapping[allowanceKey, *uint256.Int]
	minters     *solidity.Mapping[bicash.Address, *uint256.Int] // remaining mint cap
	scale       *solidity.Uint256
}

func newStorage(context *solidity.Context) *storage {
	return &storage{
		name:        solidity.NewValue[string](context, slotName),
		totalSupply: solidity.NewUint256(context, slotTotalSupply),
		balances:    solidity.NewMapping[bicash.Address, *uint256.Int](context, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *uint256.Int](context, slotAllowances),
		minters:     solidity.NewMapping[bicash.Address, *uint256.Int](context, slotMinters),
		scale:       solidity.NewUint256(context, slotScale),
	}
}

func (s *storage) getRawBalance(addr bicash.Address) (*uint256.Int, error) {
	b, err := s.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return b, nil
}

func (s *storage) setRawBalance(addr bicash.Address, raw *uint256.Int) error {
	if err := s.balances.Set(addr, raw); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

func (s *storage) getAllowance(owner, spender bicash.Address) (*uint256.Int, error) {
	a, err := s.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return a, nil
}

func (s *storage) setAllowance(owner, spender bicash.Address, amount *uint256.Int) error {
	if err := s.allowances.Set(allowanceKey{owner, spender}, amount); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

func (s *storage) getMinterCap(minter bicash.Address) (*uint256.Int, error) {
	c, err := s.minters.Get(minter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get minter")
	}
	return c, nil
}

func (s *storage) setMinterCap(minter bicash.Address, remaining *uint256.Int) error {
	if err := s.minters.Set(minter, remaining); err != nil {
		return errors.Wrap(err, "failed to set minter")
	}
	return nil
}

// getScale returns the scale factor, bicash.ScaleBase when never rebased.
func (s *storage) getScale() (*uint256.Int, error) {
	v, err := s.scale.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get scale")
	}
	if v.IsZero() {
		return bicash.ScaleBase.Clone(), nil
	}
	return v, nil
}
