// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package test

import (
	"time"

	"github.com/avast/retry-go/v4"
)

// Retry calls fn every retryPeriod until it succeeds or maxWaitTime elapses,
// returning the last error in the latter case.
func Retry(fn func() error, retryPeriod, maxWaitTime time.Duration) error {
	attempts := max(uint(maxWaitTime/retryPeriod), 1)
	return retry.Do(
		fn,
		retry.Attempts(attempts),
		retry.Delay(retryPeriod),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
