package migration

import (
	"reflect"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/orm"
)

// ModelBucket wraps an orm bucket so that every model it reads or writes is
// brought to the current schema of its package first. A stored record with a
// schema newer than the running code fails with ErrSchema.
//
// Query and raw key access bypass the migration.
type ModelBucket struct {
	orm.ModelBucket
	guard upgrader
}

var _ orm.ModelBucket = (*ModelBucket)(nil)

// NewModelBucket wraps b. The schema version is tracked per packageName.
func NewModelBucket(packageName string, b orm.ModelBucket) *ModelBucket {
	return &ModelBucket{
		ModelBucket: b,
		guard:       upgrader{pkg: packageName, schema: NewSchemaBucket(), reg: reg},
	}
}

// useRegister replaces the global register. Tests only.
func (m *ModelBucket) useRegister(r *register) {
	m.guard.reg = r
}

func (m *ModelBucket) One(db splitpay.ReadOnlyKVStore, key []byte, dest orm.Model) error {
	if err := m.ModelBucket.One(db, key, dest); err != nil {
		return err
	}
	return m.guard.upgrade(db, dest)
}

func (m *ModelBucket) ByIndex(db splitpay.ReadOnlyKVStore, indexName string, value []byte, dest orm.ModelSlicePtr) ([][]byte, error) {
	keys, err := m.ModelBucket.ByIndex(db, indexName, value, dest)
	if err != nil {
		return nil, err
	}
	// The wrapped bucket already ensured dest points to a slice of
	// models or of model pointers.
	items := reflect.ValueOf(dest).Elem()
	for i := 0; i < items.Len(); i++ {
		item := items.Index(i)
		model, ok := item.Interface().(orm.Model)
		if !ok {
			model = item.Addr().Interface().(orm.Model)
		}
		if err := m.guard.upgrade(db, model); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
	}
	return keys, nil
}

func (m *ModelBucket) Put(db splitpay.KVStore, key []byte, model orm.Model) error {
	if err := m.guard.upgrade(db, model); err != nil {
		return err
	}
	return m.ModelBucket.Put(db, key, model)
}

// Migrate brings value to the current schema of packageName in place. It
// fails if value cannot be migrated or has no metadata or is newer than the
// current schema, or if no migration path exists.
func Migrate(db splitpay.ReadOnlyKVStore, packageName string, value interface{}) error {
	u := upgrader{pkg: packageName, schema: NewSchemaBucket(), reg: reg}
	return u.upgrade(db, value)
}

type upgrader struct {
	pkg    string
	schema *SchemaBucket
	reg    *register
}

func (u upgrader) upgrade(db splitpay.ReadOnlyKVStore, value interface{}) error {
	m, ok := value.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrModel, "%T cannot be migrated", value)
	}
	meta := m.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrModel, "%T has no metadata", m)
	}
	current, err := u.schema.CurrentSchema(db, u.pkg)
	if err != nil {
		return errors.Wrapf(err, "schema of %q", u.pkg)
	}
	switch {
	case meta.Schema == 0:
		// Models built in code carry no schema and are always current.
		meta.Schema = current
	case meta.Schema > current:
		return errors.Wrapf(errors.ErrSchema, "%T schema %d is newer than %d", m, meta.Schema, current)
	}
	if err := u.reg.Apply(db, m, current); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}
