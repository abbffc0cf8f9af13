package payreq

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/splittest/assert"
	"github.com/iov-one/splitpay/store"
	"github.com/iov-one/splitpay/x/alias"
	"github.com/iov-one/splitpay/x/cash"
)

const testDeposit = 4

type routes map[string]splitpay.Handler

func (r routes) Handle(path string, h splitpay.Handler) {
	r[path] = h
}

func meta() *splitpay.Metadata {
	return &splitpay.Metadata{Schema: 1}
}

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func deliver(t testing.TB, db splitpay.KVStore, signer splitpay.Condition, msg splitpay.Msg) (*splitpay.DeliverResult, error) {
	t.Helper()
	r := make(routes)
	auth := &splittest.Auth{Signer: signer}
	ctrl := cash.NewController()
	alias.RegisterRoutes(r, auth, ctrl)
	RegisterRoutes(r, auth, ctrl)
	h, ok := r[msg.Path()]
	if !ok {
		t.Fatalf("no handler for %q", msg.Path())
	}
	ctx := splitpay.WithBlockTime(context.Background(), now)
	tx := &splittest.Tx{Msg: msg}
	if _, err := h.Check(ctx, db, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

// newTestStore returns a store with the alias "shop" owned by given owner
// and the sender funded.
func newTestStore(t testing.TB, owner, sender splitpay.Condition) splitpay.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "alias", "payreq", "cash")
	assert.Nil(t, gconf.Save(db, "cash", &cash.Configuration{
		Metadata:      meta(),
		NativeTicker:  "LAMP",
		RecordDeposit: testDeposit,
	}))
	ctrl := cash.NewController()
	assert.Nil(t, ctrl.Issue(db, owner.Address(), 100))
	assert.Nil(t, ctrl.Issue(db, sender.Address(), 100))
	_, err := deliver(t, db, owner, &alias.RegisterMsg{Metadata: meta(), Owner: owner.Address(), Alias: "shop"})
	assert.Nil(t, err)
	return db
}

func TestCreate(t *testing.T) {
	owner := splittest.NewCondition()
	sender := splittest.NewCondition()

	cases := map[string]struct {
		signer  splitpay.Condition
		msg     *CreateMsg
		wantErr *errors.Error
	}{
		"sender creates a request": {
			signer: sender,
			msg:    &CreateMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "shop", Amount: 500, Concept: "invoice 17"},
		},
		"sender signature missing": {
			signer:  owner,
			msg:     &CreateMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "shop", Amount: 500},
			wantErr: errors.ErrUnauthorized,
		},
		"unknown alias": {
			signer:  sender,
			msg:     &CreateMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "ghost", Amount: 500},
			wantErr: errors.ErrNotFound,
		},
		"concept too long": {
			signer:  sender,
			msg:     &CreateMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "shop", Amount: 500, Concept: strings.Repeat("x", 101)},
			wantErr: ErrConceptTooLong,
		},
		"zero amount": {
			signer:  sender,
			msg:     &CreateMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "shop"},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t, owner, sender)
			res, err := deliver(t, db, tc.signer, tc.msg)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			addr := Address("shop", sender.Address())
			assert.Equal(t, []byte(addr), res.Data)

			var req PaymentRequest
			assert.Nil(t, NewBucket().One(db, addr, &req))
			assert.Equal(t, tc.msg.Amount, req.Amount)
			assert.Equal(t, tc.msg.Concept, req.Concept)
			assert.Equal(t, splitpay.AsUnixTime(now), req.Timestamp)

			n, err := cash.NewController().Balance(db, sender.Address())
			assert.Nil(t, err)
			assert.Equal(t, uint64(100-testDeposit), n)

			_, err = deliver(t, db, tc.signer, tc.msg)
			assert.IsErr(t, errors.ErrDuplicate, err)
		})
	}
}

func TestClose(t *testing.T) {
	owner := splittest.NewCondition()
	sender := splittest.NewCondition()

	cases := map[string]struct {
		signer  splitpay.Condition
		wantErr *errors.Error
	}{
		"sender closes": {
			signer: sender,
		},
		"alias owner closes": {
			signer: owner,
		},
		"stranger cannot close": {
			signer:  splittest.NewCondition(),
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t, owner, sender)
			create := &CreateMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "shop", Amount: 500}
			_, err := deliver(t, db, sender, create)
			assert.Nil(t, err)

			_, err = deliver(t, db, tc.signer, &CloseMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "shop"})
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			reqs, err := NewBucket().ByAlias(db, "shop")
			assert.Nil(t, err)
			assert.Equal(t, 0, len(reqs))
			// The deposit always goes back to the sender.
			n, err := cash.NewController().Balance(db, sender.Address())
			assert.Nil(t, err)
			assert.Equal(t, uint64(100), n)
		})
	}
}

func TestByAlias(t *testing.T) {
	owner := splittest.NewCondition()
	sender := splittest.NewCondition()
	db := newTestStore(t, owner, sender)

	_, err := deliver(t, db, sender, &CreateMsg{Metadata: meta(), Sender: sender.Address(), RecipientAlias: "shop", Amount: 1})
	assert.Nil(t, err)
	_, err = deliver(t, db, owner, &CreateMsg{Metadata: meta(), Sender: owner.Address(), RecipientAlias: "shop", Amount: 2})
	assert.Nil(t, err)

	reqs, err := NewBucket().ByAlias(db, "shop")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(reqs))
	var total uint64
	for _, r := range reqs {
		total += r.Amount
	}
	assert.Equal(t, uint64(3), total)

	reqs, err = NewBucket().ByAlias(db, "other")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(reqs))
}
