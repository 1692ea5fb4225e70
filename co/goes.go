// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds concurrency helpers.
package co

import (
	"sync"
)

// Goes runs go routines sharing a stop channel and waits for them.
type Goes struct {
	wg       sync.WaitGroup
	once     sync.Once
	stopOnce sync.Once
	stop     chan struct{}
}

func (g *Goes) stopChan() chan struct{} {
	g.once.Do(func() { g.stop = make(chan struct{}) })
	return g.stop
}

// Go runs f in a go routine. f should return once stop is closed.
func (g *Goes) Go(f func(stop <-chan struct{})) {
	stop := g.stopChan()
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f(stop)
	}()
}

// Stop closes the stop channel. Calling it more than once is a no-op.
func (g *Goes) Stop() {
	stop := g.stopChan()
	g.stopOnce.Do(func() { close(stop) })
}

// Wait waits for all go routines started by Go to return.
func (g *Goes) Wait() {
	g.wg.Wait()
}
