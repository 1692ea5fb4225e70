// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Signal announces the occurrence of an event to any number of waiters.
// Unlike sync.Cond, waiting is a channel receive, so it can be selected with other channels.
type Signal struct {
	lock sync.Mutex
	ch   chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all goroutines waiting on s.
func (s *Signal) Broadcast() {
	s.lock.Lock()
	defer s.lock.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// Wait returns a channel closed by the next Broadcast.
func (s *Signal) Wait() <-chan struct{} {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.current()
}
