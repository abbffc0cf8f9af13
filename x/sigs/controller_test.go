package sigs

import (
	"testing"

	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	pay := []byte("settle/pay shop 10001")
	chainID := "splitpay-local"

	base, err := SignBytes(pay, chainID, 3)
	require.NoError(t, err)
	assert.Len(t, base, 64)

	fromTx, err := TxSignBytes(NewStdTx(pay), chainID, 3)
	require.NoError(t, err)
	assert.Equal(t, base, fromTx)

	variants := map[string]struct {
		payload []byte
		chainID string
		seq     int64
	}{
		"other payload":  {payload: []byte("settle/pay shop 10002"), chainID: chainID, seq: 3},
		"other chain":    {payload: pay, chainID: chainID + "-2", seq: 3},
		"other sequence": {payload: pay, chainID: chainID, seq: 4},
	}
	for name, v := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := SignBytes(v.payload, v.chainID, v.seq)
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}

	_, err = SignBytes(pay, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = SignBytes(pay, "x", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, "sigs")
	payer := crypto.GenPrivKeyEd25519()
	chainID := "splitpay-local"
	payload := []byte("settle/pay shop 20000")
	tx := NewStdTx(payload)

	sign := func(seq int64) *StdSignature {
		sig, err := SignTx(payer, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}
	first, second := sign(0), sign(1)

	nonce, err := NextNonce(kv, payer.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(0), nonce)

	_, err = VerifySignature(kv, sign(7), payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err), "sequence ahead of the stored one")
	_, err = VerifySignature(kv, first, payload, "splitpay-other")
	assert.True(t, errors.ErrUnauthorized.Is(err), "signed for another chain")
	_, err = VerifySignature(kv, first, []byte("settle/pay shop 90000"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err), "signed another payload")
	_, err = VerifySignature(kv, &StdSignature{Pubkey: payer.PublicKey()}, payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err), "signature missing")

	signer, err := VerifySignature(kv, first, payload, chainID)
	require.NoError(t, err)
	assert.Equal(t, payer.PublicKey().Condition(), signer)

	nonce, err = NextNonce(kv, payer.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(1), nonce)

	_, err = VerifySignature(kv, first, payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err), "replayed request")

	_, err = VerifySignature(kv, second, payload, chainID)
	require.NoError(t, err)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, "sigs")
	chainID := "splitpay-local"

	sender := crypto.GenPrivKeyEd25519()
	owner := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("payreq/close coffee"))

	senderSig, err := SignTx(sender, tx, chainID, 0)
	require.NoError(t, err)
	ownerSig, err := SignTx(owner, tx, chainID, 0)
	require.NoError(t, err)

	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{senderSig, ownerSig}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, sender.PublicKey().Condition(), signers[0])
	assert.Equal(t, owner.PublicKey().Condition(), signers[1])

	tx.Signatures = []*StdSignature{ownerSig}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
}
