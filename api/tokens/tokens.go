// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/api/utils"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/builtin/token"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

type Token struct {
	Address     bicash.Address `json:"address"`
	Name        string         `json:"name"`
	TotalSupply *uint256.Int   `json:"totalSupply"`
	Scale       *uint256.Int   `json:"scale"`
}

type Balance struct {
	Token   bicash.Address `json:"token"`
	Address bicash.Address `json:"address"`
	Balance *uint256.Int   `json:"balance"`
}

type Tokens struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Tokens {
	return &Tokens{ledger}
}

// resolve accepts a token name or address.
func resolve(s string) (bicash.Address, error) {
	switch strings.ToLower(s) {
	case "cash":
		return builtin.Cash.Address, nil
	case "share":
		return builtin.Share.Address, nil
	}
	addr, err := bicash.ParseAddress(s)
	if err != nil {
		return bicash.Address{}, utils.BadRequest(errors.WithMessage(err, "token"))
	}
	if addr != builtin.Cash.Address && addr != builtin.Share.Address {
		return bicash.Address{}, utils.NotFound(errors.New("token: not found"))
	}
	return addr, nil
}

func (t *Tokens) view(req *http.Request, fn func(tk *token.Token) error) (bicash.Address, error) {
	addr, err := resolve(mux.Vars(req)["token"])
	if err != nil {
		return addr, err
	}
	return addr, t.ledger.View(func(st *state.State, _ *xenv.BlockContext) error {
		tk := builtin.Cash.Native(st, nil)
		if addr == builtin.Share.Address {
			tk = builtin.Share.Native(st, nil)
		}
		return fn(tk)
	})
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	var info Token
	addr, err := t.view(req, func(tk *token.Token) (err error) {
		if info.Name, err = tk.Name(); err != nil {
			return
		}
		if info.TotalSupply, err = tk.TotalSupply(); err != nil {
			return
		}
		info.Scale, err = tk.Scale()
		return
	})
	if err != nil {
		return err
	}
	info.Address = addr
	return utils.WriteJSON(w, &info)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	holder, err := bicash.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	b := Balance{Address: holder}
	b.Token, err = t.view(req, func(tk *token.Token) (err error) {
		b.Balance, err = tk.BalanceOf(holder)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &b)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{token}").
		Methods(http.MethodGet).
		Name("tokens_get_token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{token}/balances/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
}
