// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
)

// SignedCall is a clause signed by its caller. Nonce must equal the count of
// calls the caller had admitted before, so a signed call is admitted at most once.
type SignedCall struct {
	Clause    *Clause
	Nonce     uint64
	Signature []byte
}

// SigningHash returns the hash to be signed. It binds the call to the ledger
// built from the given genesis.
func SigningHash(genesisID bicash.Bytes32, nonce uint64, clause *Clause) bicash.Bytes32 {
	data, _ := rlp.EncodeToBytes([]any{genesisID, nonce, clause.body.To, clause.body.Method, []byte(clause.body.Args)})
	return bicash.Blake2b(data)
}

// Sign signs clause with the private key of the caller.
func Sign(genesisID bicash.Bytes32, nonce uint64, clause *Clause, key *ecdsa.PrivateKey) (*SignedCall, error) {
	hash := SigningHash(genesisID, nonce, clause)
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &SignedCall{Clause: clause, Nonce: nonce, Signature: sig}, nil
}

// Caller recovers the address that signed the call.
func (c *SignedCall) Caller(genesisID bicash.Bytes32) (bicash.Address, error) {
	if c.Clause == nil {
		return bicash.Address{}, errors.New("clause required")
	}
	if len(c.Signature) != crypto.SignatureLength {
		return bicash.Address{}, errors.New("invalid signature length")
	}
	hash := SigningHash(genesisID, c.Nonce, c.Clause)
	pub, err := crypto.SigToPub(hash[:], c.Signature)
	if err != nil {
		return bicash.Address{}, err
	}
	return bicash.Address(crypto.PubkeyToAddress(*pub)), nil
}

// KeyToAddress returns the address controlled by key.
func KeyToAddress(key *ecdsa.PrivateKey) bicash.Address {
	return bicash.Address(crypto.PubkeyToAddress(key.PublicKey))
}
