package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/splittest/assert"
	"github.com/iov-one/splitpay/store"
)

type routes map[string]splitpay.Handler

func (r routes) Handle(path string, h splitpay.Handler) {
	r[path] = h
}

func TestBumpSequence(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()
	stranger := splittest.NewCondition()

	cases := map[string]struct {
		signer     splitpay.Condition
		start      int64
		increment  uint32
		wantErr    *errors.Error
		wantNextSq int64
	}{
		"increment by one is a no-op on top of the tx": {
			signer:     pub.Condition(),
			start:      5,
			increment:  1,
			wantNextSq: 5,
		},
		"increment by many": {
			signer:     pub.Condition(),
			start:      5,
			increment:  100,
			wantNextSq: 104,
		},
		"unknown signer": {
			signer:    stranger,
			increment: 3,
			wantErr:   errors.ErrNotFound,
		},
		"increment too big": {
			signer:    pub.Condition(),
			start:     5,
			increment: maxSequenceIncrement + 1,
			wantErr:   errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "sigs")

			b := NewBucket()
			user := &UserData{Metadata: &splitpay.Metadata{Schema: 1}, Pubkey: pub, Sequence: tc.start}
			assert.Nil(t, b.Save(db, user))

			auth := &splittest.Auth{Signer: tc.signer}
			r := make(routes)
			RegisterRoutes(r, auth)
			h := r[pathBumpSequenceMsg]

			tx := &splittest.Tx{Msg: &BumpSequenceMsg{
				Metadata:  &splitpay.Metadata{Schema: 1},
				Increment: tc.increment,
			}}
			_, err := h.Deliver(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			next, err := NextNonce(db, pub.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantNextSq, next)
		})
	}
}
