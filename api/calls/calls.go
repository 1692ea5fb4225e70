// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/api/utils"
	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// Call is a method call on a protocol contract made on behalf of Caller. Calls
// submitted for admission are signed by the caller, who may then be left out.
type Call struct {
	Caller    bicash.Address  `json:"caller"`
	To        bicash.Address  `json:"to"`
	Method    string          `json:"method"`
	Args      json.RawMessage `json:"args,omitempty"`
	Nonce     uint64          `json:"nonce,omitempty"`
	Signature hexutil.Bytes   `json:"signature,omitempty"`
}

func (c *Call) clause() (*tx.Clause, error) {
	if _, ok := builtin.ContractName(c.Caller); ok {
		return nil, errors.New("caller: protocol contract")
	}
	if _, ok := builtin.ContractName(c.To); !ok {
		return nil, errors.New("to: not a protocol contract")
	}
	if c.Method == "" {
		return nil, errors.New("method: required")
	}
	clause := tx.NewClause(c.To).WithMethod(c.Method)
	if len(c.Args) == 0 {
		return clause, nil
	}
	return clause.WithArgs(c.Args)
}

// Nonce is the nonce the next signed call of an account must carry.
type Nonce struct {
	Nonce uint64 `json:"nonce"`
}

type Calls struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Calls {
	return &Calls{ledger}
}

func (c *Calls) parse(req *http.Request) (*Call, *tx.Clause, error) {
	var call Call
	if err := utils.ParseJSON(req.Body, &call); err != nil {
		return nil, nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	clause, err := call.clause()
	if err != nil {
		return nil, nil, utils.BadRequest(err)
	}
	return &call, clause, nil
}

func (c *Calls) handleExecute(w http.ResponseWriter, req *http.Request) error {
	call, clause, err := c.parse(req)
	if err != nil {
		return err
	}
	if len(call.Signature) == 0 {
		return utils.BadRequest(errors.New("signature: required"))
	}
	signed := &tx.SignedCall{Clause: clause, Nonce: call.Nonce, Signature: call.Signature}
	signer, err := signed.Caller(c.ledger.GenesisID())
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "signature"))
	}
	if !call.Caller.IsZero() && call.Caller != signer {
		return utils.Forbidden(errors.Errorf("caller: signed by %v", signer))
	}
	receipt, err := c.ledger.ExecuteSigned(signed)
	if err != nil {
		if errors.Is(err, ledger.ErrBadNonce) {
			return utils.BadRequest(errors.WithMessage(err, "nonce"))
		}
		if errors.Is(err, ledger.ErrContractCaller) || errors.Is(err, ledger.ErrBadSignature) {
			return utils.Forbidden(err)
		}
		return err
	}
	return utils.WriteJSON(w, types.ConvertReceipt(receipt))
}

func (c *Calls) handleInspect(w http.ResponseWriter, req *http.Request) error {
	call, clause, err := c.parse(req)
	if err != nil {
		return err
	}
	if call.Caller.IsZero() {
		return utils.BadRequest(errors.New("caller: required"))
	}
	out, err := c.ledger.Inspect(call.Caller, clause)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertOutput(out))
}

func (c *Calls) handleGetNonce(w http.ResponseWriter, req *http.Request) error {
	addr, err := bicash.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	nonce, err := c.ledger.Nonce(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Nonce{nonce})
}

func (c *Calls) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("calls_execute").
		HandlerFunc(utils.WrapHandlerFunc(c.handleExecute))
	sub.Path("/inspect").
		Methods(http.MethodPost).
		Name("calls_inspect").
		HandlerFunc(utils.WrapHandlerFunc(c.handleInspect))
	sub.Path("/nonce/{address}").
		Methods(http.MethodGet).
		Name("calls_get_nonce").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetNonce))
}
