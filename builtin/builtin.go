// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the protocol contracts to their addresses and exposes their methods.
package builtin

import (
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin/boardroom"
	"github.com/BicashFinance/bicash-protocol/builtin/solidity"
	"github.com/BicashFinance/bicash-protocol/builtin/token"
	"github.com/BicashFinance/bicash-protocol/builtin/treasury"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

var (
	Cash      = &tokenContract{newContract("Cash")}
	Share     = &tokenContract{newContract("Share")}
	Boardroom = &boardroomContract{newContract("Boardroom")}
	Treasury  = &treasuryContract{newContract("Treasury")}

	contracts = []*contract{Cash.contract, Share.contract, Boardroom.contract, Treasury.contract}
)

type contract struct {
	Name    string
	Address bicash.Address
}

func newContract(name string) *contract {
	return &contract{name, bicash.NameToAddress(name)}
}

type (
	tokenContract     struct{ *contract }
	boardroomContract struct{ *contract }
	treasuryContract  struct{ *contract }
)

func (t *tokenContract) Native(state *state.State, emitter solidity.Emitter) *token.Token {
	return token.New(solidity.NewContext(t.Address, state, emitter))
}

func (b *boardroomContract) Native(state *state.State, blockCtx *xenv.BlockContext, emitter solidity.Emitter) *boardroom.Boardroom {
	return boardroom.New(
		solidity.NewContext(b.Address, state, emitter),
		blockCtx,
		Share.Native(state, emitter),
		Cash.Native(state, emitter),
	)
}

func (t *treasuryContract) Native(state *state.State, blockCtx *xenv.BlockContext, emitter solidity.Emitter) *treasury.Treasury {
	return treasury.New(
		solidity.NewContext(t.Address, state, emitter),
		Cash.Native(state, emitter),
		Boardroom.Native(state, blockCtx, emitter),
	)
}

// ContractName returns the name of the builtin contract at addr.
func ContractName(addr bicash.Address) (string, bool) {
	for _, c := range contracts {
		if c.Address == addr {
			return c.Name, true
		}
	}
	return "", false
}

// ContractByName returns the address of the named builtin contract.
func ContractByName(name string) (bicash.Address, bool) {
	for _, c := range contracts {
		if c.Name == name {
			return c.Address, true
		}
	}
	return bicash.Address{}, false
}
