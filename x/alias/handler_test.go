package alias

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
	"github.com/iov-one/splitpay/x/cash"
)

const testDeposit = 10

type routes map[string]splitpay.Handler

func (r routes) Handle(path string, h splitpay.Handler) {
	r[path] = h
}

func newTestStore(t testing.TB) splitpay.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "alias", "cash")
	conf := cash.Configuration{
		Metadata:      &splitpay.Metadata{Schema: 1},
		NativeTicker:  "LAMP",
		RecordDeposit: testDeposit,
	}
	assert.Nil(t, gconf.Save(db, "cash", &conf))
	return db
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func deliver(t testing.TB, db splitpay.KVStore, signer splitpay.Condition, msg splitpay.Msg) (*splitpay.DeliverResult, error) {
	t.Helper()
	r := make(routes)
	RegisterRoutes(r, &splittest.Auth{Signer: signer}, cash.NewController())
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

func meta() *splitpay.Metadata {
	return &splitpay.Metadata{Schema: 1}
}

func TestRegister(t *testing.T) {
	owner := splittest.NewCondition()

	cases := map[string]struct {
		signer  splitpay.Condition
		msg     *RegisterMsg
		funds   uint64
		wantErr *errors.Error
	}{
		"success": {
			signer: owner,
			msg:    &RegisterMsg{Metadata: meta(), Owner: owner.Address(), Alias: "abc"},
			funds:  testDeposit,
		},
		"too short": {
			signer:  owner,
			msg:     &RegisterMsg{Metadata: meta(), Owner: owner.Address(), Alias: "ab"},
			funds:   testDeposit,
			wantErr: ErrInvalidAliasLength,
		},
		"invalid characters": {
			signer:  owner,
			msg:     &RegisterMsg{Metadata: meta(), Owner: owner.Address(), Alias: "AB_1"},
			funds:   testDeposit,
			wantErr: ErrInvalidAliasCharacters,
		},
		"metadata too long": {
			signer:  owner,
			msg:     &RegisterMsg{Metadata: meta(), Owner: owner.Address(), Alias: "abc", MetadataURI: strings.Repeat("u", 201)},
			funds:   testDeposit,
			wantErr: ErrMetadataTooLong,
		},
		"not signed by the owner": {
			signer:  splittest.NewCondition(),
			msg:     &RegisterMsg{Metadata: meta(), Owner: owner.Address(), Alias: "abc"},
			funds:   testDeposit,
			wantErr: errors.ErrUnauthorized,
		},
		"cannot pay the deposit": {
			signer:  owner,
			msg:     &RegisterMsg{Metadata: meta(), Owner: owner.Address(), Alias: "abc"},
			funds:   testDeposit - 1,
			wantErr: errors.ErrInsufficientAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t)
			ctrl := cash.NewController()
			assert.Nil(t, ctrl.Issue(db, owner.Address(), tc.funds))

			res, err := deliver(t, db, tc.signer, tc.msg)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, []byte(Address(tc.msg.Alias)), res.Data)

			rec, err := NewBucket().Lookup(db, tc.msg.Alias)
			assert.Nil(t, err)
			assert.Equal(t, uint32(1), rec.Version)
			assert.Equal(t, true, rec.Active)
			assert.Equal(t, splitpay.AsUnixTime(now), rec.RegisteredAt)
			assert.Equal(t, owner.Address(), rec.Owner)

			locked, err := ctrl.Balance(db, Address(tc.msg.Alias))
			assert.Nil(t, err)
			assert.Equal(t, uint64(testDeposit), locked)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db := newTestStore(t)
	alice := splittest.NewCondition()
	bob := splittest.NewCondition()
	ctrl := cash.NewController()
	assert.Nil(t, ctrl.Issue(db, alice.Address(), 100))
	assert.Nil(t, ctrl.Issue(db, bob.Address(), 100))

	_, err := deliver(t, db, alice, &RegisterMsg{Metadata: meta(), Owner: alice.Address(), Alias: "shop"})
	assert.Nil(t, err)
	_, err = deliver(t, db, bob, &RegisterMsg{Metadata: meta(), Owner: bob.Address(), Alias: "shop"})
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestLifecycle(t *testing.T) {
	db := newTestStore(t)
	alice := splittest.NewCondition()
	bob := splittest.NewCondition()
	ctrl := cash.NewController()
	assert.Nil(t, ctrl.Issue(db, alice.Address(), 100))
	assert.Nil(t, ctrl.Issue(db, bob.Address(), 100))
	b := NewBucket()

	_, err := deliver(t, db, alice, &RegisterMsg{Metadata: meta(), Owner: alice.Address(), Alias: "shop"})
	assert.Nil(t, err)
	first, err := b.Lookup(db, "shop")
	assert.Nil(t, err)

	// Only the owner can modify.
	_, err = deliver(t, db, bob, &UpdateMetadataMsg{Metadata: meta(), Alias: "shop", MetadataURI: "x"})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(t, db, alice, &UpdateMetadataMsg{Metadata: meta(), Alias: "shop", MetadataURI: strings.Repeat("u", 201)})
	assert.IsErr(t, ErrMetadataTooLong, err)
	_, err = deliver(t, db, alice, &UpdateMetadataMsg{Metadata: meta(), Alias: "shop", MetadataURI: "ipfs://shop"})
	assert.Nil(t, err)
	rec, err := b.Lookup(db, "shop")
	assert.Nil(t, err)
	assert.Equal(t, "ipfs://shop", rec.MetadataURI)

	// Activation state changes are not idempotent.
	_, err = deliver(t, db, alice, &ReactivateMsg{Metadata: meta(), Alias: "shop"})
	assert.IsErr(t, ErrAliasAlreadyActive, err)
	_, err = deliver(t, db, bob, &DeactivateMsg{Metadata: meta(), Alias: "shop"})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(t, db, alice, &DeactivateMsg{Metadata: meta(), Alias: "shop"})
	assert.Nil(t, err)
	_, err = deliver(t, db, alice, &DeactivateMsg{Metadata: meta(), Alias: "shop"})
	assert.IsErr(t, ErrAliasAlreadyInactive, err)
	_, err = deliver(t, db, alice, &ReactivateMsg{Metadata: meta(), Alias: "shop"})
	assert.Nil(t, err)

	// Transfer bumps the version.
	_, err = deliver(t, db, alice, &TransferMsg{Metadata: meta(), Alias: "shop", NewOwner: alice.Address()})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = deliver(t, db, alice, &TransferMsg{Metadata: meta(), Alias: "shop", NewOwner: bob.Address()})
	assert.Nil(t, err)
	rec, err = b.Lookup(db, "shop")
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), rec.Version)
	assert.Equal(t, bob.Address(), rec.Owner)
	if rec.Identity().Equals(first.Identity()) {
		t.Fatal("transfer must change the identity")
	}
	_, err = deliver(t, db, alice, &DeleteMsg{Metadata: meta(), Alias: "shop"})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Delete refunds the deposit to the current owner.
	_, err = deliver(t, db, bob, &DeleteMsg{Metadata: meta(), Alias: "shop"})
	assert.Nil(t, err)
	_, err = b.Lookup(db, "shop")
	assert.IsErr(t, errors.ErrNotFound, err)
	balance, err := ctrl.Balance(db, bob.Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(100+testDeposit), balance)

	// The name is free again and the new record has a new identity.
	_, err = deliver(t, db, bob, &RegisterMsg{Metadata: meta(), Owner: bob.Address(), Alias: "shop"})
	assert.Nil(t, err)
	again, err := b.Lookup(db, "shop")
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), again.Version)
	if again.Identity().Equals(first.Identity()) || again.Identity().Equals(rec.Identity()) {
		t.Fatal("re-registration must change the identity")
	}
}

func TestMissingAlias(t *testing.T) {
	db := newTestStore(t)
	_, err := deliver(t, db, splittest.NewCondition(), &DeactivateMsg{Metadata: meta(), Alias: "ghost"})
	assert.IsErr(t, errors.ErrNotFound, err)
}
