// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bicashclient is a client of the bicash node API covering the
// boardroom operations and the read endpoints.
package bicashclient

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/holiman/uint256"

	"github.com/BicashFinance/bicash-protocol/api/boardroom"
	"github.com/BicashFinance/bicash-protocol/api/calls"
	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/bicashclient/common"
	"github.com/BicashFinance/bicash-protocol/bicashclient/httpclient"
	"github.com/BicashFinance/bicash-protocol/bicashclient/wsclient"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/tx"
)

// ErrReverted is returned along with the receipt of a reverted call.
var ErrReverted = errors.New("call reverted")

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client

	lock    sync.Mutex
	genesis *bicash.Bytes32
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

func (c *Client) RawWSClient() *wsclient.Client {
	return c.wsConn
}

// Call signs a call of method on a protocol contract with key and executes it.
func (c *Client) Call(key *ecdsa.PrivateKey, to bicash.Address, method string, args any) (*types.Receipt, error) {
	clause := tx.NewClause(to).WithMethod(method)
	if args != nil {
		var err error
		if clause, err = clause.WithArgs(args); err != nil {
			return nil, fmt.Errorf("unable to marshal args - %w", err)
		}
	}
	genesisID, err := c.genesisID()
	if err != nil {
		return nil, err
	}
	caller := tx.KeyToAddress(key)
	nonce, err := c.httpConn.Nonce(caller)
	if err != nil {
		return nil, err
	}
	signed, err := tx.Sign(genesisID, nonce, clause, key)
	if err != nil {
		return nil, err
	}
	receipt, err := c.httpConn.Execute(&calls.Call{
		Caller:    caller,
		To:        to,
		Method:    method,
		Args:      clause.Args(),
		Nonce:     nonce,
		Signature: signed.Signature,
	})
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, fmt.Errorf("%w: %s", ErrReverted, receipt.RevertReason)
	}
	return receipt, nil
}

func (c *Client) genesisID() (bicash.Bytes32, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.genesis == nil {
		info, err := c.httpConn.Info()
		if err != nil {
			return bicash.Bytes32{}, err
		}
		c.genesis = &info.GenesisID
	}
	return *c.genesis, nil
}

func amount(v *uint256.Int) map[string]any {
	return map[string]any{"amount": v}
}

// Approve lets spender move amount of token held by the owner of key.
func (c *Client) Approve(key *ecdsa.PrivateKey, token, spender bicash.Address, value *uint256.Int) (*types.Receipt, error) {
	return c.Call(key, token, "approve", map[string]any{"spender": spender, "amount": value})
}

// Stake approves the boardroom for value Share and stakes it.
func (c *Client) Stake(key *ecdsa.PrivateKey, value *uint256.Int) (*types.Receipt, error) {
	if _, err := c.Approve(key, builtin.Share.Address, builtin.Boardroom.Address, value); err != nil {
		return nil, err
	}
	return c.Call(key, builtin.Boardroom.Address, "stake", amount(value))
}

func (c *Client) Withdraw(key *ecdsa.PrivateKey, value *uint256.Int) (*types.Receipt, error) {
	return c.Call(key, builtin.Boardroom.Address, "withdraw", amount(value))
}

func (c *Client) ClaimReward(key *ecdsa.PrivateKey) (*types.Receipt, error) {
	return c.Call(key, builtin.Boardroom.Address, "claimReward", nil)
}

func (c *Client) Exit(key *ecdsa.PrivateKey) (*types.Receipt, error) {
	return c.Call(key, builtin.Boardroom.Address, "exit", nil)
}

// AllocateSeigniorage mints value Cash through the treasury into the boardroom.
// The key must be the one of the treasury operator.
func (c *Client) AllocateSeigniorage(key *ecdsa.PrivateKey, value *uint256.Int) (*types.Receipt, error) {
	return c.Call(key, builtin.Treasury.Address, "allocateSeigniorage", amount(value))
}

func (c *Client) Boardroom() (*boardroom.Summary, error) {
	return c.httpConn.Boardroom()
}

func (c *Client) Member(addr bicash.Address) (*boardroom.Member, error) {
	return c.httpConn.Member(addr)
}

func (c *Client) Head() (*ledger.Head, error) {
	return c.httpConn.Head()
}

// SubscribeStakerEvents streams the boardroom events naming staker, starting
// after call seq pos.
func (c *Client) SubscribeStakerEvents(staker bicash.Address, pos uint64) (*common.Subscription[*types.FilteredEvent], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket client")
	}
	query := url.Values{}
	query.Set("pos", fmt.Sprint(pos))
	query.Set("addr", builtin.Boardroom.Address.String())
	query.Set("t1", tx.AddressTopic(staker).String())
	return c.wsConn.SubscribeEvents(query)
}
