// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("address: invalid")), http.StatusBadRequest, "address: invalid\n"},
		{"wrapped", errors.WithMessage(NotFound(errors.New("no snapshot")), "boardroom"), http.StatusNotFound, "no snapshot\n"},
		{"forbidden", Forbidden(errors.New("limit")), http.StatusForbidden, "limit\n"},
		{"internal", errors.New("db closed"), http.StatusInternalServerError, "db closed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.NoError(t, WriteJSON(rec, M{"seq": 1}))
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"seq\":1}\n", rec.Body.String())
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		Seq uint64 `json:"seq"`
	}
	assert.NoError(t, ParseJSON(strings.NewReader(`{"seq":3}`), &v))
	assert.Equal(t, uint64(3), v.Seq)
	assert.Error(t, ParseJSON(strings.NewReader(`{"seq":3,"x":1}`), &v))
}
