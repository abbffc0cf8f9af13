package migration

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest/assert"
)

func TestRegisterOrder(t *testing.T) {
	cases := map[string]struct {
		Before  []uint32
		Version uint32
		WantErr *errors.Error
	}{
		"first version": {
			Version: 1,
		},
		"next version": {
			Before:  []uint32{1, 2},
			Version: 3,
		},
		"zero version": {
			Version: 0,
			WantErr: errors.ErrInput,
		},
		"version gap at start": {
			Version: 2,
			WantErr: errors.ErrInput,
		},
		"version gap": {
			Before:  []uint32{1, 2},
			Version: 4,
			WantErr: errors.ErrInput,
		},
		"registered twice": {
			Before:  []uint32{1, 2},
			Version: 2,
			WantErr: errors.ErrDuplicate,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := newRegister()
			for _, v := range tc.Before {
				r.MustRegister(v, &note{}, NoModification)
			}
			err := r.Register(tc.Version, &note{}, NoModification)
			assert.IsErr(t, tc.WantErr, err)
		})
	}
}

func TestRegisterApply(t *testing.T) {
	appendText := func(s string) Migrator {
		return func(db splitpay.ReadOnlyKVStore, m Migratable) error {
			m.(*note).Text += s
			return nil
		}
	}
	newRegistry := func() *register {
		r := newRegister()
		r.MustRegister(1, &note{}, NoModification)
		r.MustRegister(2, &note{}, appendText("+2"))
		r.MustRegister(3, &note{}, NoModification)
		r.MustRegister(4, &note{}, appendText("+4"))
		return r
	}

	cases := map[string]struct {
		Schema     uint32
		To         uint32
		Invalid    error
		WantErr    *errors.Error
		WantSchema uint32
		WantText   string
	}{
		"up to date": {
			Schema:     2,
			To:         2,
			WantSchema: 2,
			WantText:   "v",
		},
		"skip versions": {
			Schema:     1,
			To:         3,
			WantSchema: 3,
			WantText:   "v+2",
		},
		"all versions": {
			Schema:     1,
			To:         4,
			WantSchema: 4,
			WantText:   "v+2+4",
		},
		"downgrade": {
			Schema:     3,
			To:         2,
			WantErr:    errors.ErrSchema,
			WantSchema: 3,
			WantText:   "v",
		},
		"unknown version stops at the last known one": {
			Schema:     1,
			To:         9,
			WantErr:    errors.ErrSchema,
			WantSchema: 4,
			WantText:   "v+2+4",
		},
		"zero target": {
			Schema:     1,
			To:         0,
			WantErr:    errors.ErrInput,
			WantSchema: 1,
			WantText:   "v",
		},
		"invalid after migration": {
			Schema:     1,
			To:         2,
			Invalid:    errors.ErrAmount,
			WantErr:    errors.ErrAmount,
			WantSchema: 2,
			WantText:   "v+2",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			n := &note{
				Metadata: &splitpay.Metadata{Schema: tc.Schema},
				Text:     "v",
				invalid:  tc.Invalid,
			}
			assert.IsErr(t, tc.WantErr, newRegistry().Apply(nil, n, tc.To))
			assert.Equal(t, tc.WantSchema, n.Metadata.Schema)
			assert.Equal(t, tc.WantText, n.Text)
		})
	}
}

func TestApplyWithoutMetadata(t *testing.T) {
	r := newRegister()
	r.MustRegister(1, &note{}, NoModification)
	assert.IsErr(t, errors.ErrModel, r.Apply(nil, &note{}, 1))
}

// note is a minimal migratable message.
type note struct {
	Metadata *splitpay.Metadata
	Text     string
	invalid  error
}

var _ Migratable = (*note)(nil)
var _ splitpay.Msg = (*note)(nil)

func (n *note) GetMetadata() *splitpay.Metadata { return n.Metadata }
func (n *note) Marshal() ([]byte, error)        { return json.Marshal(n) }
func (n *note) Unmarshal(raw []byte) error      { return json.Unmarshal(raw, n) }
func (n *note) Path() string                    { return "note" }

func (n *note) Validate() error {
	if err := n.Metadata.Validate(); err != nil {
		return err
	}
	return n.invalid
}
