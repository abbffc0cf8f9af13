package migration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/store"
)

func TestUpgradeSchemaHandler(t *testing.T) {
	admin := splittest.NewCondition()

	cases := map[string]struct {
		Signers        []splitpay.Condition
		Msg            *UpgradeSchemaMsg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantVersion    uint32
	}{
		"admin can upgrade": {
			Signers:     []splitpay.Condition{admin},
			Msg:         &UpgradeSchemaMsg{Metadata: &splitpay.Metadata{Schema: 1}, Pkg: "mypkg", ToVersion: 2},
			WantVersion: 2,
		},
		"non admin cannot upgrade": {
			Signers:        []splitpay.Condition{splittest.NewCondition()},
			Msg:            &UpgradeSchemaMsg{Metadata: &splitpay.Metadata{Schema: 1}, Pkg: "mypkg", ToVersion: 2},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantVersion:    1,
		},
		"versions cannot be skipped": {
			Signers:        []splitpay.Condition{admin},
			Msg:            &UpgradeSchemaMsg{Metadata: &splitpay.Metadata{Schema: 1}, Pkg: "mypkg", ToVersion: 3},
			WantDeliverErr: errors.ErrDuplicate,
			WantVersion:    1,
		},
		"invalid message": {
			Signers:        []splitpay.Condition{admin},
			Msg:            &UpgradeSchemaMsg{Metadata: &splitpay.Metadata{Schema: 1}, ToVersion: 2},
			WantCheckErr:   errors.ErrEmpty,
			WantDeliverErr: errors.ErrEmpty,
			WantVersion:    1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			MustInitPkg(db, "mypkg")
			conf := Configuration{Metadata: &splitpay.Metadata{Schema: 1}, Admin: admin.Address()}
			if err := gconf.Save(db, confPkg, &conf); err != nil {
				t.Fatalf("cannot save configuration: %s", err)
			}

			auth := &splittest.Auth{Signers: tc.Signers}
			rt := router{}
			RegisterRoutes(rt, auth)
			h := rt[pathUpgradeSchemaMsg]

			tx := &splittest.Tx{Msg: tc.Msg}
			cache := db.CacheWrap()
			if _, err := h.Check(context.Background(), cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %s", err)
			}
			cache.Discard()
			if _, err := h.Deliver(context.Background(), db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %s", err)
			}

			ver, err := NewSchemaBucket().CurrentSchema(db, "mypkg")
			if err != nil {
				t.Fatalf("cannot get schema: %s", err)
			}
			if ver != tc.WantVersion {
				t.Fatalf("want version %d, got %d", tc.WantVersion, ver)
			}
		})
	}
}

func TestSchemaMigratingHandler(t *testing.T) {
	db := store.MemStore()
	MustInitPkg(db, "migration")

	var inner splittest.Handler
	h := SchemaMigratingHandler("migration", &inner)

	msg := &UpgradeSchemaMsg{Metadata: &splitpay.Metadata{Schema: 1}, Pkg: "x", ToVersion: 1}
	if _, err := h.Deliver(context.Background(), db, &splittest.Tx{Msg: msg}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	future := &UpgradeSchemaMsg{Metadata: &splitpay.Metadata{Schema: 7}, Pkg: "x", ToVersion: 1}
	if _, err := h.Deliver(context.Background(), db, &splittest.Tx{Msg: future}); !errors.ErrSchema.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}

	other := &splittest.Msg{RoutePath: "other"}
	if _, err := h.Check(context.Background(), db, &splittest.Tx{Msg: other}); !errors.ErrMsg.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	if inner.CallCount() != 1 {
		t.Fatalf("want one handler call, got %d", inner.CallCount())
	}
}

func TestGenesisInitializer(t *testing.T) {
	const genesis = `
		{
			"conf": {
				"migration": {
					"metadata": {"schema": 1},
					"admin": "hex:d2a1f84143a9754057e42db6d6c9f986fe0ff673"
				}
			},
			"initialize_schema": [
				{"pkg": "alias", "ver": 1},
				{"pkg": "route", "ver": 2}
			]
		}
	`
	var opts splitpay.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}
	db := store.MemStore()
	if err := (Initializer{}).FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}

	b := NewSchemaBucket()
	if v, err := b.CurrentSchema(db, "route"); err != nil || v != 2 {
		t.Fatalf("unexpected route schema: %d, %v", v, err)
	}
	if v, err := b.CurrentSchema(db, "alias"); err != nil || v != 1 {
		t.Fatalf("unexpected alias schema: %d, %v", v, err)
	}
	admin, err := CurrentAdmin(db)
	if err != nil {
		t.Fatalf("cannot get admin: %s", err)
	}
	if admin.String() != "D2A1F84143A9754057E42DB6D6C9F986FE0FF673" {
		t.Fatalf("unexpected admin: %s", admin)
	}
}

type router map[string]splitpay.Handler

func (r router) Handle(path string, h splitpay.Handler) {
	r[path] = h
}
