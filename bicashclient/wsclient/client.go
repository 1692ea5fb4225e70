// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wsclient subscribes to the websocket streams of a bicash node.
package wsclient

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/bicashclient/common"
	"github.com/BicashFinance/bicash-protocol/ledger"
)

type Client struct {
	host   string
	scheme string
}

// NewClient accepts http(s) or ws(s) urls.
func NewClient(url string) (*Client, error) {
	var host, scheme string
	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "wss://"):
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "ws://"):
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	default:
		return nil, fmt.Errorf("invalid url")
	}
	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeEvents streams logged events. The query takes pos, addr and t0..t4.
func (c *Client) SubscribeEvents(query url.Values) (*common.Subscription[*types.FilteredEvent], error) {
	conn, err := c.connect("/subscriptions/event", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[types.FilteredEvent](conn), nil
}

// SubscribeTransfers streams token transfers. The query takes pos, token, caller, sender and recipient.
func (c *Client) SubscribeTransfers(query url.Values) (*common.Subscription[*types.FilteredTransfer], error) {
	conn, err := c.connect("/subscriptions/transfer", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[types.FilteredTransfer](conn), nil
}

// SubscribeHead streams the ledger head each time it moves.
func (c *Client) SubscribeHead(query url.Values) (*common.Subscription[*ledger.Head], error) {
	conn, err := c.connect("/subscriptions/head", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[ledger.Head](conn), nil
}

// subscribe pumps messages from conn into the subscription channel until the
// connection fails or is unsubscribed.
func subscribe[T any](conn *websocket.Conn) *common.Subscription[*T] {
	eventChan := make(chan common.EventWrapper[*T])
	done := make(chan struct{})

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				select {
				case <-done:
				case eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}:
				}
				return
			}
			select {
			case <-done:
				return
			case eventChan <- common.EventWrapper[*T]{Data: &data}:
			}
		}
	}()

	var once sync.Once
	return &common.Subscription[*T]{
		EventChan: eventChan,
		Unsubscribe: func() (err error) {
			once.Do(func() {
				close(done)
				err = conn.Close()
			})
			return
		},
	}
}

func (c *Client) connect(endpoint string, query url.Values) (*websocket.Conn, error) {
	u := url.URL{
		Scheme: c.scheme,
		Host:   c.host,
		Path:   endpoint,
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
