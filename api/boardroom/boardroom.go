// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boardroom

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/api/utils"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/builtin/boardroom"
	"github.com/BicashFinance/bicash-protocol/builtin/reverts"
	"github.com/BicashFinance/bicash-protocol/cache"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

type Boardroom struct {
	ledger    *ledger.Ledger
	snapshots *cache.LRU[uint64, *boardroom.Snapshot]
}

// New creates the boardroom API. Snapshots never change once appended, up to
// cacheSize of them are kept in memory.
func New(ledger *ledger.Ledger, cacheSize int) (*Boardroom, error) {
	snapshots, err := cache.NewLRU[uint64, *boardroom.Snapshot](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Boardroom{ledger, snapshots}, nil
}

func (b *Boardroom) view(fn func(board *boardroom.Boardroom, blockCtx *xenv.BlockContext) error) error {
	return b.ledger.View(func(st *state.State, blockCtx *xenv.BlockContext) error {
		return fn(builtin.Boardroom.Native(st, blockCtx, nil), blockCtx)
	})
}

func (b *Boardroom) summary() (*Summary, error) {
	s := &Summary{}
	err := b.view(func(board *boardroom.Boardroom, blockCtx *xenv.BlockContext) (err error) {
		s.BlockNumber = blockCtx.Number
		if s.TotalStaked, err = board.TotalStaked(); err != nil {
			return
		}
		if s.TotalAllocated, err = board.TotalAllocated(); err != nil {
			return
		}
		if s.TotalPaid, err = board.TotalPaid(); err != nil {
			return
		}
		if s.LatestSnapshotIndex, err = board.LatestSnapshotIndex(); err != nil {
			return
		}
		if s.RewardPerShare, err = board.RewardPerShare(); err != nil {
			return
		}
		if s.RewardScale, err = board.RewardScale(); err != nil {
			return
		}
		if s.WithdrawLockup, err = board.WithdrawLockup(); err != nil {
			return
		}
		if s.Operator, err = board.Operator(); err != nil {
			return
		}
		s.Owner, err = board.Owner()
		return
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (b *Boardroom) member(addr bicash.Address) (*Member, error) {
	m := &Member{Address: addr}
	err := b.view(func(board *boardroom.Boardroom, _ *xenv.BlockContext) (err error) {
		if m.Member, err = board.Member(addr); err != nil {
			return
		}
		if m.Claimable, err = board.ClaimableOf(addr); err != nil {
			return
		}
		if m.WithdrawableAt, err = board.WithdrawableAt(addr); err != nil {
			return
		}
		m.CanWithdraw, err = board.CanWithdraw(addr)
		return
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Boardroom) snapshot(index uint64) (*boardroom.Snapshot, error) {
	return b.snapshots.GetOrLoad(index, func(index uint64) (snap *boardroom.Snapshot, err error) {
		err = b.view(func(board *boardroom.Boardroom, _ *xenv.BlockContext) error {
			snap, err = board.Snapshot(index)
			return err
		})
		return
	})
}

func (b *Boardroom) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	s, err := b.summary()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, s)
}

func (b *Boardroom) handleGetMember(w http.ResponseWriter, req *http.Request) error {
	addr, err := bicash.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	m, err := b.member(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, m)
}

func (b *Boardroom) handleGetSnapshot(w http.ResponseWriter, req *http.Request) error {
	index, err := strconv.ParseUint(mux.Vars(req)["index"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "index"))
	}
	snap, err := b.snapshot(index)
	if err != nil {
		if errors.Is(err, reverts.ErrInvalidArgument) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, snap)
}

func (b *Boardroom) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("boardroom_get_summary").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetSummary))
	sub.Path("/members/{address}").
		Methods(http.MethodGet).
		Name("boardroom_get_member").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetMember))
	sub.Path("/snapshots/{index}").
		Methods(http.MethodGet).
		Name("boardroom_get_snapshot").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetSnapshot))
}
