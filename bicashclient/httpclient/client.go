// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient talks to the REST endpoints of a bicash node.
package httpclient

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/BicashFinance/bicash-protocol/api/boardroom"
	"github.com/BicashFinance/bicash-protocol/api/calls"
	"github.com/BicashFinance/bicash-protocol/api/node"
	"github.com/BicashFinance/bicash-protocol/api/tokens"
	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/bicash"
	builtinboardroom "github.com/BicashFinance/bicash-protocol/builtin/boardroom"
	"github.com/BicashFinance/bicash-protocol/ledger"
)

// Client of the REST API.
type Client struct {
	url string
	c   *http.Client
}

// New creates a client using http.DefaultClient.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// Execute admits a signed call and returns its receipt. A reverted call still yields a receipt.
func (c *Client) Execute(call *calls.Call) (*types.Receipt, error) {
	var receipt types.Receipt
	if err := c.httpPOST(c.url+"/calls", call, &receipt); err != nil {
		return nil, fmt.Errorf("unable to execute call - %w", err)
	}
	return &receipt, nil
}

// Inspect runs a call against the head state without admitting it.
func (c *Client) Inspect(call *calls.Call) (*types.Output, error) {
	var out types.Output
	if err := c.httpPOST(c.url+"/calls/inspect", call, &out); err != nil {
		return nil, fmt.Errorf("unable to inspect call - %w", err)
	}
	return &out, nil
}

// Nonce returns the nonce the next signed call of addr must carry.
func (c *Client) Nonce(addr bicash.Address) (uint64, error) {
	var n calls.Nonce
	if err := c.httpGET(c.url+"/calls/nonce/"+addr.String(), &n); err != nil {
		return 0, fmt.Errorf("unable to retrieve nonce - %w", err)
	}
	return n.Nonce, nil
}

func (c *Client) Boardroom() (*boardroom.Summary, error) {
	var s boardroom.Summary
	if err := c.httpGET(c.url+"/boardroom", &s); err != nil {
		return nil, fmt.Errorf("unable to retrieve boardroom - %w", err)
	}
	return &s, nil
}

func (c *Client) Member(addr bicash.Address) (*boardroom.Member, error) {
	var m boardroom.Member
	if err := c.httpGET(c.url+"/boardroom/members/"+addr.String(), &m); err != nil {
		return nil, fmt.Errorf("unable to retrieve member - %w", err)
	}
	return &m, nil
}

func (c *Client) Snapshot(index uint64) (*builtinboardroom.Snapshot, error) {
	var s builtinboardroom.Snapshot
	if err := c.httpGET(c.url+"/boardroom/snapshots/"+strconv.FormatUint(index, 10), &s); err != nil {
		return nil, fmt.Errorf("unable to retrieve snapshot - %w", err)
	}
	return &s, nil
}

// Token accepts a token name ("cash", "share") or its address.
func (c *Client) Token(token string) (*tokens.Token, error) {
	var tk tokens.Token
	if err := c.httpGET(c.url+"/tokens/"+token, &tk); err != nil {
		return nil, fmt.Errorf("unable to retrieve token - %w", err)
	}
	return &tk, nil
}

func (c *Client) Balance(token string, holder bicash.Address) (*tokens.Balance, error) {
	var b tokens.Balance
	if err := c.httpGET(c.url+"/tokens/"+token+"/balances/"+holder.String(), &b); err != nil {
		return nil, fmt.Errorf("unable to retrieve balance - %w", err)
	}
	return &b, nil
}

func (c *Client) FilterEvents(filter *types.EventFilter) ([]*types.FilteredEvent, error) {
	var events []*types.FilteredEvent
	if err := c.httpPOST(c.url+"/logs/event", filter, &events); err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}
	return events, nil
}

func (c *Client) FilterTransfers(filter *types.TransferFilter) ([]*types.FilteredTransfer, error) {
	var transfers []*types.FilteredTransfer
	if err := c.httpPOST(c.url+"/logs/transfer", filter, &transfers); err != nil {
		return nil, fmt.Errorf("unable to filter transfers - %w", err)
	}
	return transfers, nil
}

func (c *Client) Head() (*ledger.Head, error) {
	var head ledger.Head
	if err := c.httpGET(c.url+"/node/head", &head); err != nil {
		return nil, fmt.Errorf("unable to retrieve head - %w", err)
	}
	return &head, nil
}

func (c *Client) Info() (*node.Info, error) {
	var info node.Info
	if err := c.httpGET(c.url+"/node/info", &info); err != nil {
		return nil, fmt.Errorf("unable to retrieve node info - %w", err)
	}
	return &info, nil
}
