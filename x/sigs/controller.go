package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
)

// signTag starts every signed payload so that a request signature can never
// be mistaken for a signature of other data.
var signTag = []byte("splitpay/req/v1\x00")

// SignBytes returns the digest a signer must sign to authorize payload on
// given chain with given sequence:
//
//	sha512(tag | len(chainID) | chainID | bigendian(seq) | payload)
func SignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !splitpay.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	h := sha512.New()
	h.Write(signTag)
	h.Write([]byte{uint8(len(chainID))})
	h.Write([]byte(chainID))
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	h.Write(nonce[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// TxSignBytes is SignBytes of the request payload.
func TxSignBytes(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return SignBytes(payload, chainID, seq)
}

// SignTx signs the request with given key and sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := TxSignBytes(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}

// VerifyTxSignatures checks every signature of the request and increments
// the sequence of each signer. It returns the signer conditions in the order
// of signatures. Any invalid signature fails the whole request.
func VerifyTxSignatures(db splitpay.KVStore, tx SignedTx, chainID string) ([]splitpay.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	v := verifier{db: db, bucket: NewBucket(), chainID: chainID, payload: payload}
	sigs := tx.GetSignatures()
	signers := make([]splitpay.Condition, 0, len(sigs))
	for i, sig := range sigs {
		c, err := v.verify(sig)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, c)
	}
	return signers, nil
}

// VerifySignature checks a single signature of payload and consumes its
// sequence.
func VerifySignature(db splitpay.KVStore, sig *StdSignature, payload []byte, chainID string) (splitpay.Condition, error) {
	v := verifier{db: db, bucket: NewBucket(), chainID: chainID, payload: payload}
	return v.verify(sig)
}

type verifier struct {
	db      splitpay.KVStore
	bucket  Bucket
	chainID string
	payload []byte
}

func (v verifier) verify(sig *StdSignature) (splitpay.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := SignBytes(v.payload, v.chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	user, err := v.bucket.GetOrCreate(v.db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := v.bucket.Save(v.db, user); err != nil {
		return nil, errors.Wrap(err, "save sequence")
	}
	return user.Pubkey.Condition(), nil
}

// NextNonce returns the sequence the signer must use for its next request.
// Unknown signers start at zero.
func NextNonce(db splitpay.ReadOnlyKVStore, signer splitpay.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "sequence")
	}
}
