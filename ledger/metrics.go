// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/BicashFinance/bicash-protocol/metrics"
)

var (
	metricCallCount    = metrics.LazyLoadCounterVec("ledger_call_count", []string{"contract", "method", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("ledger_call_duration_ms", []string{"contract", "method"}, metrics.BucketCallDuration)
	metricHeadSeq      = metrics.LazyLoadGauge("ledger_head_seq")
	metricBlockNumber  = metrics.LazyLoadGauge("ledger_block_number")
)
