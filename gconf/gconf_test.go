package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/splittest/assert"
	"github.com/iov-one/splitpay/store"
)

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &myconfig{Owner: splittest.RandomAddr(t), Num: 852151421, Str: "foobar", Limit: 7},
		},
		"zero values": {
			Conf: &myconfig{Owner: splittest.RandomAddr(t)},
		},
		"invalid address cannot be saved": {
			Conf:        &myconfig{Owner: splitpay.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got myconfig
			if err := Load(db, "mypkg", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var c myconfig
	if err := Load(db, "mypkg", &c); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestMustLoad(t *testing.T) {
	db := store.MemStore()
	var c myconfig
	assert.Panics(t, func() { MustLoad(db, "mypkg", &c) })

	want := myconfig{Owner: splittest.RandomAddr(t), Num: 7}
	if err := Save(db, "mypkg", &want); err != nil {
		t.Fatalf("cannot save: %s", err)
	}
	MustLoad(db, "mypkg", &c)
	assert.Equal(t, want, c)
}

func TestInitConfig(t *testing.T) {
	const genesis = `
		{
			"conf": {
				"mypkg": {
					"Owner": "hex:d2a1f84143a9754057e42db6d6c9f986fe0ff673",
					"Num": 321,
					"Str": "hello"
				}
			}
		}
	`
	var opts splitpay.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	if err := InitConfig(db, opts, "mypkg", &myconfig{}); err != nil {
		t.Fatalf("cannot init configuration: %s", err)
	}
	var got myconfig
	if err := Load(db, "mypkg", &got); err != nil {
		t.Fatalf("cannot load configuration: %s", err)
	}
	assert.Equal(t, int64(321), got.Num)
	assert.Equal(t, "hello", got.Str)
	assert.Equal(t, splittest.ParseAddress(t, "hex:d2a1f84143a9754057e42db6d6c9f986fe0ff673"), got.Owner)

	if err := InitConfig(db, opts, "otherpkg", &myconfig{}); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

type myconfig struct {
	Owner splitpay.Address
	Num   int64
	Str   string
	Limit uint64
}

func (c *myconfig) GetOwner() splitpay.Address { return c.Owner }
func (c *myconfig) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *myconfig) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *myconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInput, "negative num")
	}
	return nil
}

type myconfigMsg struct {
	Patch *myconfig
}

var _ PatchMsg = (*myconfigMsg)(nil)

func (msg *myconfigMsg) Marshal() ([]byte, error)   { return json.Marshal(msg) }
func (msg *myconfigMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }
func (msg *myconfigMsg) Path() string               { return "myconfig" }
func (msg *myconfigMsg) Validate() error            { return msg.Patch.Validate() }
func (msg *myconfigMsg) ConfigPatch() OwnedConfig   { return msg.Patch }
