// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/BicashFinance/bicash-protocol/api/boardroom"
	"github.com/BicashFinance/bicash-protocol/api/calls"
	"github.com/BicashFinance/bicash-protocol/api/events"
	"github.com/BicashFinance/bicash-protocol/api/middleware"
	"github.com/BicashFinance/bicash-protocol/api/node"
	"github.com/BicashFinance/bicash-protocol/api/subscriptions"
	"github.com/BicashFinance/bicash-protocol/api/tokens"
	"github.com/BicashFinance/bicash-protocol/api/transfers"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/metrics"
)

var logger = log.WithContext("pkg", "api")

const defaultSnapshotCacheSize = 1024

// Options of the api. A non-positive SnapshotCacheSize falls back to 1024.
type Options struct {
	AllowedOrigins    string
	BacktraceLimit    uint64
	LogsLimit         uint64
	SnapshotCacheSize int
	EnableReqLogger   *atomic.Bool
	SlowQueries       time.Duration
	Log5xxErrors      bool
	EnableMetrics     bool
	Info              node.Info
}

// New returns the api handler and a function closing the websocket subscriptions.
func New(l *ledger.Ledger, opts Options) (http.HandlerFunc, func(), error) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	calls.New(l).
		Mount(router, "/calls")
	cacheSize := opts.SnapshotCacheSize
	if cacheSize <= 0 {
		cacheSize = defaultSnapshotCacheSize
	}
	board, err := boardroom.New(l, cacheSize)
	if err != nil {
		return nil, nil, err
	}
	board.Mount(router, "/boardroom")
	tokens.New(l).
		Mount(router, "/tokens")
	events.New(l.LogDB(), opts.LogsLimit).
		Mount(router, "/logs/event")
	transfers.New(l.LogDB(), opts.LogsLimit).
		Mount(router, "/logs/transfer")
	node.New(l, opts.Info).
		Mount(router, "/node")
	subs := subscriptions.New(l, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	genesisID := l.GenesisID().String()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-genesis-id", genesisID)
			next.ServeHTTP(w, r)
		})
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueries, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, subs.Close, nil
}
