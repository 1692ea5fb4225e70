// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/lvldb"
)

func encodeUint(v uint64) func() ([]byte, error) {
	return func() ([]byte, error) { return rlp.EncodeToBytes(v) }
}

func decodeUint(st *State, addr bicash.Address, key bicash.Bytes32) uint64 {
	var v uint64
	err := st.DecodeStorage(addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	})
	if err != nil {
		panic(err)
	}
	return v
}

func TestStateCheckpoint(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := NewStater(db).NewState()
	addr := bicash.NameToAddress("Boardroom")
	key := bicash.BytesToBytes32([]byte("total-staked"))

	require.NoError(t, st.EncodeStorage(addr, key, encodeUint(50)))

	cp := st.NewCheckpoint()
	require.NoError(t, st.EncodeStorage(addr, key, encodeUint(80)))
	assert.Equal(t, uint64(80), decodeUint(st, addr, key))

	st.RevertTo(cp)
	assert.Equal(t, uint64(50), decodeUint(st, addr, key))
}

func TestStageCommit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	stater := NewStater(db)
	addr := bicash.NameToAddress("Cash")
	k1 := bicash.BytesToBytes32([]byte("a"))
	k2 := bicash.BytesToBytes32([]byte("b"))

	st := stater.NewState()
	require.NoError(t, st.EncodeStorage(addr, k1, encodeUint(1)))
	require.NoError(t, st.EncodeStorage(addr, k2, encodeUint(2)))
	require.NoError(t, st.EncodeStorage(addr, k1, encodeUint(3)))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())

	bulk := db.Bulk()
	require.NoError(t, stage.Commit(stater.Putter(bulk)))

	assert.Equal(t, uint64(0), decodeUint(stater.NewState(), addr, k1), "not visible before write")
	require.NoError(t, bulk.Write())

	fresh := stater.NewState()
	assert.Equal(t, uint64(3), decodeUint(fresh, addr, k1))
	assert.Equal(t, uint64(2), decodeUint(fresh, addr, k2))

	// an empty value removes the entry
	fresh.SetRawStorage(addr, k2, nil)
	bulk = db.Bulk()
	require.NoError(t, fresh.Stage().Commit(stater.Putter(bulk)))
	require.NoError(t, bulk.Write())
	raw, err := stater.NewState().GetRawStorage(addr, k2)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestDecodeErrorIsStateError(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := NewStater(db).NewState()
	addr := bicash.NameToAddress("Share")
	key := bicash.BytesToBytes32([]byte("x"))
	st.SetRawStorage(addr, key, []byte{0xff})

	var v uint64
	err = st.DecodeStorage(addr, key, func(raw []byte) error { return rlp.DecodeBytes(raw, &v) })
	var se *Error
	assert.ErrorAs(t, err, &se)
}
