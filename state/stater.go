// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/BicashFinance/bicash-protocol/kv"
)

// Bucket is the prefix of storage entries in the main db.
const Bucket = kv.Bucket("s")

// Stater is the state creator.
type Stater struct {
	store kv.Store
}

// NewStater create a new stater over the main db.
func NewStater(db kv.Store) *Stater {
	return &Stater{Bucket.NewStore(db)}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return New(s.store)
}

// Putter returns the putter a stage is committed into, bound to the given bulk of the main db.
func (s *Stater) Putter(bulk kv.Putter) kv.Putter {
	return Bucket.NewPutter(bulk)
}
