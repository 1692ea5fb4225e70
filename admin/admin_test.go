// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/health"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/test"
)

type fixture struct {
	logLevel slog.LevelVar
	apiLogs  atomic.Bool
	health   *health.Health
	handler  http.Handler
}

func newFixture() *fixture {
	f := &fixture{health: health.New(1)}
	f.logLevel.Set(log.LevelInfo)
	f.handler = HTTPHandler(&f.logLevel, &f.apiLogs, f.health)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body string) (int, []byte) {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr.Code, rr.Body.Bytes()
}

func TestLogLevel(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, http.MethodGet, "/admin/loglevel", "")
	require.Equal(t, http.StatusOK, code)
	var res logLevelResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "info", res.CurrentLevel)

	code, body = f.do(t, http.MethodPost, "/admin/loglevel", `{"level":"debug"}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "debug", res.CurrentLevel)
	assert.Equal(t, log.LevelDebug, f.logLevel.Level())

	code, body = f.do(t, http.MethodPost, "/admin/loglevel", `{"level":"invalid_body"}`)
	require.Equal(t, http.StatusBadRequest, code)
	var errRes errorResponse
	require.NoError(t, json.Unmarshal(body, &errRes))
	assert.Equal(t, "Invalid verbosity level", errRes.ErrorMessage)
	assert.Equal(t, log.LevelDebug, f.logLevel.Level())

	code, _ = f.do(t, http.MethodPost, "/admin/loglevel", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodDelete, "/admin/loglevel", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestAPILogs(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, http.MethodPost, "/admin/apilogs", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, f.apiLogs.Load())

	var res apiLogsResponse
	code, body = f.do(t, http.MethodGet, "/admin/apilogs", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Enabled)

	f.do(t, http.MethodPost, "/admin/apilogs", `{"enabled":false}`)
	assert.False(t, f.apiLogs.Load())
}

func TestHealth(t *testing.T) {
	f := newFixture()

	code, _ := f.do(t, http.MethodGet, "/admin/health", "")
	assert.Equal(t, http.StatusOK, code)

	f.health.AllocationFailed(errors.New("ledger closed"))
	code, body := f.do(t, http.MethodGet, "/admin/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	var status health.Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.False(t, status.Healthy)
	assert.Equal(t, "ledger closed", status.Allocator.LastError)
}

func TestStartServer(t *testing.T) {
	f := newFixture()
	url, stop, err := StartServer("localhost:0", f.handler)
	require.NoError(t, err)

	res, err := http.Get(url + "/loglevel") //#nosec G107
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	stop()
	err = test.Retry(func() error {
		res, err := http.Get(url + "/loglevel") //#nosec G107
		if err != nil {
			return nil
		}
		res.Body.Close()
		return errors.New("admin server still serving")
	}, 10*time.Millisecond, time.Second)
	assert.NoError(t, err)
}
