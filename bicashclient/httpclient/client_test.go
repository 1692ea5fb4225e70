// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/api/calls"
	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/bicashclient/common"
	"github.com/BicashFinance/bicash-protocol/ledger"
)

func TestClient_Execute(t *testing.T) {
	call := &calls.Call{
		Caller:    bicash.Address{0x01},
		To:        bicash.Address{0x02},
		Method:    "claimReward",
		Nonce:     4,
		Signature: hexutil.Bytes{0xaa, 0xbb},
	}
	expected := &types.Receipt{
		Seq:    7,
		Caller: call.Caller,
		Output: &types.Output{Reverted: true, RevertReason: "boardroom: lockup"},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calls", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var got calls.Call
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, *call, got)

		data, _ := json.Marshal(expected)
		w.Write(data)
	}))
	defer ts.Close()

	receipt, err := New(ts.URL).Execute(call)
	require.NoError(t, err)
	assert.Equal(t, expected.Seq, receipt.Seq)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "boardroom: lockup", receipt.RevertReason)
}

func TestClient_Nonce(t *testing.T) {
	addr := bicash.Address{0x01}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calls/nonce/"+addr.String(), r.URL.Path)
		w.Write([]byte(`{"nonce":12}`))
	}))
	defer ts.Close()

	nonce, err := New(ts.URL).Nonce(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), nonce)
}

func TestClient_Head(t *testing.T) {
	expected := &ledger.Head{Seq: 3, ID: bicash.Bytes32{0x03}, BlockNumber: 2, BlockTime: 1526400020}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/node/head", r.URL.Path)
		data, _ := json.Marshal(expected)
		w.Write(data)
	}))
	defer ts.Close()

	head, err := New(ts.URL + "/").Head()
	require.NoError(t, err)
	assert.Equal(t, expected, head)
}

func TestClient_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/boardroom/snapshots/9":
			http.Error(w, "snapshot: out of range", http.StatusNotFound)
		case "/tokens/gold":
			http.Error(w, "token: bad", http.StatusBadRequest)
		default:
			w.Write([]byte("{"))
		}
	}))
	defer ts.Close()

	c := New(ts.URL)

	_, err := c.Snapshot(9)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "snapshot: out of range")

	_, err = c.Token("gold")
	assert.ErrorIs(t, err, common.ErrNot200Status)
	assert.NotErrorIs(t, err, common.ErrNotFound)

	_, err = c.Boardroom()
	assert.ErrorContains(t, err, "unable to unmarshal response")
}
