// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls_test

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/api/calls"
	"github.com/BicashFinance/bicash-protocol/api/utils/types"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/genesis"
	"github.com/BicashFinance/bicash-protocol/test/testledger"
	"github.com/BicashFinance/bicash-protocol/tx"
)

func newServer(t *testing.T) (*testledger.Ledger, *httptest.Server) {
	l := testledger.New(t)
	router := mux.NewRouter()
	calls.New(l.Ledger).Mount(router, "/calls")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return l, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

// signedCall signs the call with key and the given nonce.
func signedCall(t *testing.T, l *testledger.Ledger, key *ecdsa.PrivateKey, nonce uint64, call *calls.Call) *calls.Call {
	clause := tx.NewClause(call.To).WithMethod(call.Method)
	if len(call.Args) > 0 {
		var err error
		clause, err = clause.WithArgs(call.Args)
		require.NoError(t, err)
	}
	signed, err := tx.Sign(l.GenesisID(), nonce, clause, key)
	require.NoError(t, err)
	call.Nonce = nonce
	call.Signature = signed.Signature
	return call
}

func TestExecute(t *testing.T) {
	l, ts := newServer(t)
	staker := genesis.DevAccounts()[1]
	key := genesis.DevKeys()[1]

	body, code := httpPost(t, ts.URL+"/calls", signedCall(t, l, key, 0, &calls.Call{
		To:     builtin.Share.Address,
		Method: "approve",
		Args:   json.RawMessage(`{"spender":"` + builtin.Boardroom.Address.String() + `","amount":"1000"}`),
	}))
	require.Equal(t, http.StatusOK, code, string(body))

	var receipt types.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, l.Head().Seq, receipt.Seq)
	assert.Equal(t, staker, receipt.Caller)
	assert.False(t, receipt.Reverted)
	assert.Len(t, receipt.Events, 1)
	assert.Equal(t, "approve", receipt.Clause.Method())

	// staking more than approved reverts but is still admitted
	body, code = httpPost(t, ts.URL+"/calls", signedCall(t, l, key, 1, &calls.Call{
		Caller: staker,
		To:     builtin.Boardroom.Address,
		Method: "stake",
		Args:   json.RawMessage(`{"amount":"1001"}`),
	}))
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.RevertReason, "insufficient allowance")
	assert.Empty(t, receipt.Events)
	assert.Equal(t, l.Head().Seq, receipt.Seq)

	body, code = httpGet(t, ts.URL+"/calls/nonce/"+staker.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var nonce calls.Nonce
	require.NoError(t, json.Unmarshal(body, &nonce))
	assert.Equal(t, uint64(2), nonce.Nonce)
}

func TestExecuteUnauthorized(t *testing.T) {
	l, ts := newServer(t)
	accs := genesis.DevAccounts()
	keys := genesis.DevKeys()
	staker, thief := accs[1], accs[9]
	l.Stake(staker, 10)
	l.Allocate(5)
	seq := l.Head().Seq

	drain := func() *calls.Call {
		return &calls.Call{
			To:     builtin.Cash.Address,
			Method: "transfer",
			Args:   json.RawMessage(`{"to":"` + thief.String() + `","amount":"` + bicash.Tokens(5).Dec() + `"}`),
		}
	}
	tests := []struct {
		name string
		call *calls.Call
		code int
		msg  string
	}{
		{"unsigned", func() *calls.Call { c := drain(); c.Caller = staker; return c }(), http.StatusBadRequest, "signature: required"},
		{"contract caller", func() *calls.Call { c := drain(); c.Caller = builtin.Boardroom.Address; return c }(), http.StatusBadRequest, "caller: protocol contract"},
		{"signed by another", func() *calls.Call { c := signedCall(t, l, keys[9], 0, drain()); c.Caller = staker; return c }(), http.StatusForbidden, "caller: signed by"},
		{"stale nonce", signedCall(t, l, keys[1], 0, drain()), http.StatusBadRequest, "bad nonce"},
		{"bad signature", func() *calls.Call { c := drain(); c.Signature = []byte{1, 2, 3}; return c }(), http.StatusBadRequest, "signature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, code := httpPost(t, ts.URL+"/calls", tt.call)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, string(body), tt.msg)
		})
	}
	assert.Equal(t, seq, l.Head().Seq)

	// the reward is left for the staker
	r := l.MustCall(staker, builtin.Boardroom.Address, "claimReward", nil)
	assert.Equal(t, bicash.Tokens(5), r.Data)
}

func TestInspect(t *testing.T) {
	l, ts := newServer(t)
	staker := genesis.DevAccounts()[2]
	l.Stake(staker, 5)
	seq := l.Head().Seq

	body, code := httpPost(t, ts.URL+"/calls/inspect", &calls.Call{
		Caller: staker,
		To:     builtin.Boardroom.Address,
		Method: "balanceOf",
		Args:   json.RawMessage(`{"address":"` + staker.String() + `"}`),
	})
	require.Equal(t, http.StatusOK, code, string(body))

	var out types.Output
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Reverted)
	assert.Equal(t, bicash.Tokens(5).Dec(), out.Data)

	// mutations are run but not admitted
	body, code = httpPost(t, ts.URL+"/calls/inspect", &calls.Call{
		Caller: staker,
		To:     builtin.Boardroom.Address,
		Method: "exit",
	})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Reverted, out.RevertReason)
	assert.Equal(t, seq, l.Head().Seq)
}

func TestBadRequests(t *testing.T) {
	_, ts := newServer(t)
	caller := genesis.DevAccounts()[1]

	tests := []struct {
		name string
		body any
		msg  string
	}{
		{"contract caller", &calls.Call{Caller: builtin.Treasury.Address, To: builtin.Cash.Address, Method: "name"}, "caller: protocol contract"},
		{"unknown contract", &calls.Call{Caller: caller, To: caller, Method: "name"}, "to: not a protocol contract"},
		{"no method", &calls.Call{Caller: caller, To: builtin.Cash.Address}, "method: required"},
		{"unknown field", map[string]any{"caller": caller, "to": builtin.Cash.Address, "method": "name", "gas": 1}, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, code := httpPost(t, ts.URL+"/calls", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, string(body), tt.msg)
		})
	}

	body, code := httpPost(t, ts.URL+"/calls/inspect", &calls.Call{To: builtin.Cash.Address, Method: "name"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "caller: required")

	body, code = httpPost(t, ts.URL+"/calls/inspect", &calls.Call{Caller: builtin.Boardroom.Address, To: builtin.Cash.Address, Method: "name"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "caller: protocol contract")

	_, code = httpGet(t, ts.URL+"/calls/nonce/0xzz")
	assert.Equal(t, http.StatusBadRequest, code)
}
