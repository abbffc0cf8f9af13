package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// Name returns the bucket name. It is also the owner name written into
	// every record envelope.
	Name() string

	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database, ErrType if the record was written by another bucket and
	// ErrSchema if the stored payload cannot be decoded.
	One(db splitpay.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if a record under given key exists.
	Has(db splitpay.ReadOnlyKVStore, key []byte) (bool, error)

	// ByIndex returns all models that are referenced by given index and
	// value. Keys of the loaded models are returned in the same order.
	// Destination must be a pointer to a slice of models.
	ByIndex(db splitpay.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) (keys [][]byte, err error)

	// Put saves given model in the database. All indexes are updated.
	Put(db splitpay.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity does not exist.
	Delete(db splitpay.KVStore, key []byte) error

	// Raw returns the stored envelope without decoding the payload.
	Raw(db splitpay.ReadOnlyKVStore, key []byte) (*RawRecord, error)

	// DeleteRaw removes a record without decoding its payload.
	DeleteRaw(db splitpay.KVStore, key []byte) error

	// Register registers this buckets content to be accessible via query
	// requests under the given name. Each index is available under
	// "<name>/<index name>".
	Register(name string, r splitpay.QueryRouter)

	splitpay.QueryHandler
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// index values must be exactly width bytes long.
func WithIndex(name string, width int, indexer Indexer) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("duplicated index: " + name)
		}
		mb.indexes[name] = newIndex(mb.name, name, width, indexer)
	}
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// NewModelBucket returns a ModelBucket instance. This implementation relies
// on a bucket instance. Final implementation should operate directly on the
// KVStore instead.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("illegal bucket name: " + name)
	}
	tp := reflect.TypeOf(m)
	if tp == nil || tp.Kind() != reflect.Ptr || tp.Elem().Kind() != reflect.Struct {
		panic("model must be a pointer to a struct")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   tp.Elem(),
		indexes: make(map[string]*index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]*index
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) Name() string {
	return mb.name
}

func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, 0, len(mb.prefix)+len(key))
	out = append(out, mb.prefix...)
	return append(out, key...)
}

func (mb *modelBucket) checkType(m Model) error {
	if tp := reflect.TypeOf(m); tp != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "bucket %q stores %s, got %T", mb.name, mb.model, m)
	}
	if reflect.ValueOf(m).IsNil() {
		return errors.Wrap(errors.ErrType, "nil model")
	}
	return nil
}

func (mb *modelBucket) Raw(db splitpay.ReadOnlyKVStore, key []byte) (*RawRecord, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "db get")
	}
	if raw == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s %x", mb.name, key)
	}
	rec := RawRecord{Key: key}
	if err := rec.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "%s %x", mb.name, key)
	}
	return &rec, nil
}

func (mb *modelBucket) One(db splitpay.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	rec, err := mb.Raw(db, key)
	if err != nil {
		return err
	}
	return mb.decode(rec, dest)
}

func (mb *modelBucket) decode(rec *RawRecord, dest Model) error {
	if rec.Owner != mb.name {
		return errors.Wrapf(errors.ErrType, "record %x owned by %q", rec.Key, rec.Owner)
	}
	if err := dest.Unmarshal(rec.Payload); err != nil {
		if !errors.ErrSchema.Is(err) {
			err = errors.Wrap(errors.ErrSchema, err.Error())
		}
		return errors.Wrapf(err, "decode %s %x", mb.name, rec.Key)
	}
	return nil
}

func (mb *modelBucket) Has(db splitpay.ReadOnlyKVStore, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, errors.Wrap(errors.ErrEmpty, "key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return false, errors.Wrap(err, "db has")
	}
	return ok, nil
}

func (mb *modelBucket) Put(db splitpay.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := mb.checkType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	payload, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal model")
	}
	rec := RawRecord{Owner: mb.name, Payload: payload}
	raw, err := rec.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}

	if len(mb.indexes) > 0 {
		prev := mb.previous(db, key)
		for name, ix := range mb.indexes {
			next, err := ix.value(m)
			if err != nil {
				return err
			}
			if err := ix.update(db, key, prev[name], next); err != nil {
				return err
			}
		}
	}

	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "db set")
	}
	return nil
}

// previous returns index values of the currently stored entity. Records that
// cannot be decoded produce no values. Index entries left behind by such
// records are ignored on read.
func (mb *modelBucket) previous(db splitpay.ReadOnlyKVStore, key []byte) map[string][]byte {
	prev := reflect.New(mb.model).Interface().(Model)
	if err := mb.One(db, key, prev); err != nil {
		return nil
	}
	values := make(map[string][]byte, len(mb.indexes))
	for name, ix := range mb.indexes {
		if v, err := ix.value(prev); err == nil {
			values[name] = v
		}
	}
	return values
}

func (mb *modelBucket) Delete(db splitpay.KVStore, key []byte) error {
	ok, err := mb.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %x", mb.name, key)
	}
	if len(mb.indexes) > 0 {
		prev := mb.previous(db, key)
		for name, ix := range mb.indexes {
			if err := ix.update(db, key, prev[name], nil); err != nil {
				return err
			}
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "db delete")
	}
	return nil
}

func (mb *modelBucket) DeleteRaw(db splitpay.KVStore, key []byte) error {
	ok, err := mb.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %x", mb.name, key)
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "db delete")
	}
	return nil
}

func (mb *modelBucket) ByIndex(db splitpay.ReadOnlyKVStore, indexName string, value []byte, destination ModelSlicePtr) ([][]byte, error) {
	ix, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index: %s", indexName)
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return nil, errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	slice := dest.Elem()
	if slice.Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice of models")
	}
	elemIsPtr := slice.Type().Elem().Kind() == reflect.Ptr
	if elemIsPtr && slice.Type().Elem().Elem() != mb.model ||
		!elemIsPtr && slice.Type().Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "this bucket operates on %s model and cannot return %s", mb.model, slice.Type().Elem())
	}

	candidates, err := ix.keys(db, value)
	if err != nil {
		return nil, err
	}

	slice = reflect.MakeSlice(slice.Type(), 0, len(candidates))
	var keys [][]byte
	for _, key := range candidates {
		ptr := reflect.New(mb.model)
		m := ptr.Interface().(Model)
		switch err := mb.One(db, key, m); {
		case errors.ErrNotFound.Is(err):
			continue
		case err != nil:
			return nil, err
		}
		// Index entries can outlive a record that was deleted or
		// overwritten without decoding. Confirm the entry is current.
		if v, err := ix.value(m); err != nil || string(v) != string(value) {
			continue
		}
		if elemIsPtr {
			slice = reflect.Append(slice, ptr)
		} else {
			slice = reflect.Append(slice, ptr.Elem())
		}
		keys = append(keys, key)
	}
	dest.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Register(name string, r splitpay.QueryRouter) {
	r.Register("/"+name, mb)
	for iname, ix := range mb.indexes {
		r.Register("/"+name+"/"+iname, indexQuery{mb: mb, ix: ix})
	}
}

// Query returns record payloads stored in this bucket. Records written by
// another bucket are not returned.
func (mb *modelBucket) Query(db splitpay.ReadOnlyKVStore, mod string, data []byte) ([]splitpay.Model, error) {
	switch mod {
	case splitpay.KeyQueryMod:
		rec, err := mb.Raw(db, data)
		if errors.ErrNotFound.Is(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if rec.Owner != mb.name {
			return nil, nil
		}
		return []splitpay.Model{{Key: data, Value: rec.Payload}}, nil
	case splitpay.PrefixQueryMod:
		start := mb.dbKey(data)
		it, err := db.Iterator(start, prefixEnd(start))
		if err != nil {
			return nil, errors.Wrap(err, "db iterator")
		}
		raws, err := ConsumeIterator(it)
		if err != nil {
			return nil, err
		}
		res := make([]splitpay.Model, 0, len(raws))
		for _, m := range raws {
			var rec RawRecord
			if err := rec.Unmarshal(m.Value); err != nil || rec.Owner != mb.name {
				continue
			}
			res = append(res, splitpay.Model{Key: m.Key[len(mb.prefix):], Value: rec.Payload})
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

type indexQuery struct {
	mb *modelBucket
	ix *index
}

// Query returns all records indexed under the value given as data.
func (q indexQuery) Query(db splitpay.ReadOnlyKVStore, mod string, data []byte) ([]splitpay.Model, error) {
	if mod != splitpay.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	keys, err := q.ix.keys(db, data)
	if err != nil {
		return nil, err
	}
	var res []splitpay.Model
	for _, key := range keys {
		models, err := q.mb.Query(db, splitpay.KeyQueryMod, key)
		if err != nil {
			return nil, err
		}
		res = append(res, models...)
	}
	return res, nil
}
