// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

func TestSignedCall(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	genesisID := bicash.Blake2b([]byte("genesis"))
	clause := NewClause(bicash.NameToAddress("Cash")).WithMethod("transfer").
		MustWithArgs(map[string]string{"recipient": bicash.NameToAddress("thief").String(), "amount": "1"})

	call, err := Sign(genesisID, 3, clause, key)
	require.NoError(t, err)
	assert.Len(t, call.Signature, crypto.SignatureLength)

	caller, err := call.Caller(genesisID)
	require.NoError(t, err)
	assert.Equal(t, KeyToAddress(key), caller)

	// any change to the signed content yields another signer
	other, _ := call.Caller(bicash.Blake2b([]byte("other")))
	assert.NotEqual(t, caller, other)

	replayed := *call
	replayed.Nonce = 4
	other, _ = replayed.Caller(genesisID)
	assert.NotEqual(t, caller, other)

	tampered := *call
	tampered.Clause = clause.WithMethod("approve")
	other, _ = tampered.Caller(genesisID)
	assert.NotEqual(t, caller, other)

	_, err = (&SignedCall{Clause: clause, Signature: []byte{1, 2}}).Caller(genesisID)
	assert.Error(t, err)
	_, err = (&SignedCall{Signature: call.Signature}).Caller(genesisID)
	assert.Error(t, err)
}
