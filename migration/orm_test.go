package migration

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/orm"
	"github.com/iov-one/splitpay/splittest/assert"
	"github.com/iov-one/splitpay/store"
)

func TestSchemaVersionedModelBucket(t *testing.T) {
	const thisPkgName = "testpkg"

	reg := newRegister()
	reg.MustRegister(1, &MyModel{}, NoModification)
	reg.MustRegister(2, &MyModel{}, func(db splitpay.ReadOnlyKVStore, m Migratable) error {
		msg := m.(*MyModel)
		msg.Cnt += 2
		return msg.err
	})

	db := store.MemStore()
	ensureSchemaVersion(t, db, thisPkgName, 1)

	inner := orm.NewModelBucket("mymodel", &MyModel{}, orm.WithIndex("parity", 1, parityIndex))
	b := NewModelBucket(thisPkgName, inner)
	// Use custom register instead of the global one to avoid pollution
	// from the application during tests.
	b.useRegister(reg)

	assert.Nil(t, b.Put(db, []byte("schema_one"), &MyModel{
		Metadata: &splitpay.Metadata{Schema: 1},
		Cnt:      5,
	}))

	var m MyModel
	assert.Nil(t, b.One(db, []byte("schema_one"), &m))
	if m.Metadata.Schema != 1 || m.Cnt != 5 {
		t.Fatalf("unexpected result model: %#v", m)
	}

	// Storing a model with a schema version higher than currently active
	// is not allowed.
	two := &MyModel{Metadata: &splitpay.Metadata{Schema: 2}, Cnt: 11}
	if err := b.Put(db, []byte("schema_two"), two); !errors.ErrSchema.Is(err) {
		t.Fatalf("storing an object with an unknown schema version: %s", err)
	}

	// Bumping a schema should unlock saving entities with higher schema version.
	ensureSchemaVersion(t, db, thisPkgName, 2)
	assert.Nil(t, b.Put(db, []byte("schema_two"), two))

	// Now that the schema was upgraded, all returned models must use it.
	assert.Nil(t, b.One(db, []byte("schema_one"), &m))
	if m.Metadata.Schema != 2 || m.Cnt != 5+2 {
		t.Fatalf("unexpected result model: %#v", m)
	}
	assert.Nil(t, b.One(db, []byte("schema_two"), &m))
	if m.Metadata.Schema != 2 || m.Cnt != 11 {
		t.Fatalf("unexpected result model: %#v", m)
	}

	// Listing by index migrates all returned models as well.
	var odd []MyModel
	keys, err := b.ByIndex(db, "parity", []byte{1}, &odd)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(keys))
	for _, m := range odd {
		assert.Equal(t, uint32(2), m.Metadata.Schema)
	}

	// A model declaring a schema from the future is stale.
	future := &MyModel{Metadata: &splitpay.Metadata{Schema: 3}, Cnt: 1}
	assert.Nil(t, inner.Put(db, []byte("future"), future))
	if err := b.One(db, []byte("future"), &m); !errors.ErrSchema.Is(err) {
		t.Fatalf("unexpected future record result: %s", err)
	}

	// A payload that cannot be decoded is stale.
	raw, _ := (&orm.RawRecord{Owner: "mymodel", Payload: []byte("{broken")}).Marshal()
	assert.Nil(t, db.Set([]byte("mymodel:broken"), raw))
	if err := b.One(db, []byte("broken"), &m); !errors.ErrSchema.Is(err) {
		t.Fatalf("unexpected broken record result: %s", err)
	}
	rec, err := b.Raw(db, []byte("broken"))
	assert.Nil(t, err)
	assert.Equal(t, "mymodel", rec.Owner)
}

func TestMigrateRequiresInitializedPackage(t *testing.T) {
	db := store.MemStore()
	m := &MyModel{Metadata: &splitpay.Metadata{Schema: 1}}
	if err := Migrate(db, "notinitialized", m); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := Migrate(db, "notinitialized", "not a model"); !errors.ErrModel.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
}

func parityIndex(m orm.Model) ([]byte, error) {
	return []byte{byte(m.(*MyModel).Cnt % 2)}, nil
}

type MyModel struct {
	Metadata *splitpay.Metadata
	Cnt      int

	err error
}

var _ Migratable = (*MyModel)(nil)

func (m *MyModel) GetMetadata() *splitpay.Metadata {
	return m.Metadata
}

func (m *MyModel) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return err
	}
	return m.err
}

func (m *MyModel) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *MyModel) Unmarshal(raw []byte) error {
	*m = MyModel{}
	return json.Unmarshal(raw, m)
}
