// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

type clauseBody struct {
	To     bicash.Address  `json:"to"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Clause is a single call to a method of a builtin contract.
type Clause struct {
	body clauseBody
}

// NewClause create a clause targeting the contract at the given address.
func NewClause(to bicash.Address) *Clause {
	return &Clause{clauseBody{To: to}}
}

// WithMethod returns a copy of the clause calling the named method.
func (c *Clause) WithMethod(method string) *Clause {
	newClause := *c
	newClause.body.Method = method
	return &newClause
}

// WithArgs returns a copy of the clause with args encoded in JSON.
func (c *Clause) WithArgs(args any) (*Clause, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Wrap(err, "encode args")
	}
	newClause := *c
	newClause.body.Args = data
	return &newClause, nil
}

// MustWithArgs is WithArgs panicking on error.
func (c *Clause) MustWithArgs(args any) *Clause {
	newClause, err := c.WithArgs(args)
	if err != nil {
		panic(err)
	}
	return newClause
}

// To returns the target contract address.
func (c *Clause) To() bicash.Address {
	return c.body.To
}

// Method returns the method name.
func (c *Clause) Method() string {
	return c.body.Method
}

// Args returns the JSON encoded args.
func (c *Clause) Args() json.RawMessage {
	return append(json.RawMessage(nil), c.body.Args...)
}

// ID returns the identity of the clause as submitted by caller at sequence seq.
func (c *Clause) ID(seq uint64, caller bicash.Address) bicash.Bytes32 {
	data, _ := rlp.EncodeToBytes([]any{seq, caller, c.body.To, c.body.Method, []byte(c.body.Args)})
	return bicash.Blake2b(data)
}

// MarshalJSON implements json.Marshaler.
func (c *Clause) MarshalJSON() ([]byte, error) {
	return json.Marshal(&c.body)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Clause) UnmarshalJSON(data []byte) error {
	var body clauseBody
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	if body.Method == "" {
		return errors.New("method required")
	}
	c.body = body
	return nil
}
