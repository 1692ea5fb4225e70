// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health tracks the outcome of seigniorage allocations.
package health

import (
	"sync"
	"time"
)

type Allocation struct {
	LastEpoch           *uint64    `json:"lastEpoch"`
	LastAllocation      *time.Time `json:"lastAllocation"`
	ConsecutiveFailures uint       `json:"consecutiveFailures"`
	LastError           string     `json:"lastError,omitempty"`
}

type Status struct {
	Healthy   bool        `json:"healthy"`
	Allocator *Allocation `json:"allocator"`
}

// Health turns unhealthy after maxFailures allocations failed in a row.
type Health struct {
	lock        sync.RWMutex
	maxFailures uint
	allocation  *Allocation
}

func New(maxFailures uint) *Health {
	return &Health{maxFailures: max(maxFailures, 1)}
}

// AllocationSucceeded records a handled epoch, allocated or skipped for lack of stakers.
func (h *Health) AllocationSucceeded(epoch uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	h.allocation = &Allocation{
		LastEpoch:      &epoch,
		LastAllocation: &now,
	}
}

func (h *Health) AllocationFailed(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	a := Allocation{}
	if h.allocation != nil {
		a = *h.allocation
	}
	a.ConsecutiveFailures++
	a.LastError = err.Error()
	h.allocation = &a
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Healthy: true}
	if h.allocation != nil {
		a := *h.allocation
		status.Allocator = &a
		status.Healthy = a.ConsecutiveFailures < h.maxFailures
	}
	return status
}
