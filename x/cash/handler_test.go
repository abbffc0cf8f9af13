package cash

import (
	"context"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/splittest/assert"
)

type routes map[string]splitpay.Handler

func (r routes) Handle(path string, h splitpay.Handler) {
	r[path] = h
}

func TestSendHandler(t *testing.T) {
	alice := splittest.NewCondition()
	bob := splittest.RandomAddr(t)

	cases := map[string]struct {
		signer  splitpay.Condition
		msg     *SendMsg
		wantErr *errors.Error
	}{
		"owner can send": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    &splitpay.Metadata{Schema: 1},
				Source:      alice.Address(),
				Destination: bob,
				Amount:      10,
			},
		},
		"stranger cannot send": {
			signer: splittest.NewCondition(),
			msg: &SendMsg{
				Metadata:    &splitpay.Metadata{Schema: 1},
				Source:      alice.Address(),
				Destination: bob,
				Amount:      10,
			},
			wantErr: errors.ErrUnauthorized,
		},
		"zero amount is rejected": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    &splitpay.Metadata{Schema: 1},
				Source:      alice.Address(),
				Destination: bob,
			},
			wantErr: errors.ErrAmount,
		},
		"balance too low": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    &splitpay.Metadata{Schema: 1},
				Source:      alice.Address(),
				Destination: bob,
				Amount:      1000,
			},
			wantErr: errors.ErrInsufficientAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t, 0)
			ctrl := NewController()
			assert.Nil(t, ctrl.Issue(db, alice.Address(), 100))

			r := make(routes)
			RegisterRoutes(r, &splittest.Auth{Signer: tc.signer}, ctrl)

			_, err := r[pathSendMsg].Deliver(context.Background(), db, &splittest.Tx{Msg: tc.msg})
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			got, err := ctrl.Balance(db, bob)
			assert.Nil(t, err)
			assert.Equal(t, tc.msg.Amount, got)
		})
	}
}

func TestOpenTokenAccountHandler(t *testing.T) {
	owner := splittest.NewCondition()
	db := newTestStore(t, 0)
	ctrl := NewController()
	r := make(routes)
	RegisterRoutes(r, &splittest.Auth{Signer: owner}, ctrl)
	h := r[pathOpenTokenAccountMsg]

	msg := &OpenTokenAccountMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Owner:    owner.Address(),
		Ticker:   "USDC",
	}
	_, err := h.Check(context.Background(), db, &splittest.Tx{Msg: msg})
	assert.Nil(t, err)
	res, err := h.Deliver(context.Background(), db, &splittest.Tx{Msg: msg})
	assert.Nil(t, err)
	assert.Equal(t, []byte(TokenAccountAddress(owner.Address(), "USDC")), res.Data)

	_, err = h.Deliver(context.Background(), db, &splittest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrDuplicate, err)

	other := &OpenTokenAccountMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Owner:    splittest.RandomAddr(t),
		Ticker:   "USDC",
	}
	_, err = h.Deliver(context.Background(), db, &splittest.Tx{Msg: other})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestUpdateConfiguration(t *testing.T) {
	owner := splittest.NewCondition()
	db := newTestStore(t, 0)
	conf := mustLoadConf(db)
	conf.Owner = owner.Address()
	assert.Nil(t, gconfSave(db, &conf))

	r := make(routes)
	RegisterRoutes(r, &splittest.Auth{Signer: owner}, NewController())

	msg := &UpdateConfigurationMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Patch:    &Configuration{RecordDeposit: 7},
	}
	_, err := r[pathUpdateConfigurationMsg].Deliver(context.Background(), db, &splittest.Tx{Msg: msg})
	assert.Nil(t, err)

	got := mustLoadConf(db)
	assert.Equal(t, uint64(7), got.RecordDeposit)
	assert.Equal(t, "LAMP", got.NativeTicker)
}
