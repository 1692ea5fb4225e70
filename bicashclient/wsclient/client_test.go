// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/bicashclient/common"
	"github.com/BicashFinance/bicash-protocol/ledger"
)

func serveJSON(t *testing.T, path string, query url.Values, msgs ...any) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, query, r.URL.Query())

		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		for _, msg := range msgs {
			conn.WriteJSON(msg)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		url    string
		host   string
		scheme string
	}{
		{"http://localhost:8669/", "localhost:8669", "ws"},
		{"ws://localhost:8669", "localhost:8669", "ws"},
		{"https://node.example.org", "node.example.org", "wss"},
		{"wss://node.example.org", "node.example.org", "wss"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, err := NewClient(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.host, c.host)
			assert.Equal(t, tt.scheme, c.scheme)
		})
	}

	_, err := NewClient("localhost:8669")
	assert.Error(t, err)
}

func TestClient_SubscribeEvents(t *testing.T) {
	query := url.Values{"addr": {bicash.Address{0x01}.String()}}
	expected := &types.FilteredEvent{Address: bicash.Address{0x01}, Topics: []*bicash.Bytes32{}, Data: hexutil.Bytes{}}
	ts := serveJSON(t, "/subscriptions/event", query, expected)

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	sub, err := c.SubscribeEvents(query)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Equal(t, expected, (<-sub.EventChan).Data)
}

func TestClient_SubscribeTransfers(t *testing.T) {
	query := url.Values{"recipient": {bicash.Address{0x02}.String()}}
	expected := &types.FilteredTransfer{Recipient: bicash.Address{0x02}}
	ts := serveJSON(t, "/subscriptions/transfer", query, expected)

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	sub, err := c.SubscribeTransfers(query)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Equal(t, expected, (<-sub.EventChan).Data)
}

func TestClient_SubscribeHead(t *testing.T) {
	first := &ledger.Head{Seq: 1}
	second := &ledger.Head{Seq: 2}
	ts := serveJSON(t, "/subscriptions/head", url.Values{}, first, second)

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	sub, err := c.SubscribeHead(nil)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Equal(t, first, (<-sub.EventChan).Data)
	assert.Equal(t, second, (<-sub.EventChan).Data)

	// the server hangs up after its messages
	ev := <-sub.EventChan
	assert.ErrorIs(t, ev.Error, common.ErrUnexpectedMsg)
	_, ok := <-sub.EventChan
	assert.False(t, ok)
}

func TestUnsubscribe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// hold the connection open until the client leaves
		conn.ReadMessage()
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	sub, err := c.SubscribeHead(nil)
	require.NoError(t, err)

	require.NoError(t, sub.Unsubscribe())
	assert.NoError(t, sub.Unsubscribe())

	closed := make(chan struct{})
	go func() {
		for range sub.EventChan {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription channel not closed")
	}
}
