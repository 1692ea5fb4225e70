// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/kv"
)

// Stage abstracts changes on the storage.
type Stage struct {
	changes map[storageKey]rlp.RawValue
}

// Len returns count of changed entries.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes changes into putter. The caller owns atomicity,
// usually by passing a kv.Bulk.
func (s *Stage) Commit(putter kv.Putter) error {
	for key, value := range s.changes {
		var err error
		if len(value) == 0 {
			err = putter.Delete(key.dbKey())
		} else {
			err = putter.Put(key.dbKey(), value)
		}
		if err != nil {
			return errors.Wrap(err, "commit state")
		}
	}
	return nil
}
