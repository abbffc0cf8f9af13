package orm

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

const nativeIdxPrefix = "_x."

// Indexer calculates the secondary index value for a given model. Returned
// value must be of the width declared for the index. A nil value means the
// model is not indexed.
type Indexer func(Model) ([]byte, error)

// index is using a database native storage and iteration in order to
// maintain and provide access to secondary keys. Each indexed entity is
// stored under its own key:
//
//	<prefix><value><entity key>
//
// All values of a single index are of the same width, so that iterating over
// <prefix><value> returns exactly the entities indexed under that value.
type index struct {
	name    string
	prefix  []byte
	width   int
	indexer Indexer
}

func newIndex(bucket, name string, width int, indexer Indexer) *index {
	return &index{
		name:    name,
		prefix:  []byte(nativeIdxPrefix + bucket + "_" + name + ":"),
		width:   width,
		indexer: indexer,
	}
}

func (ix *index) value(m Model) ([]byte, error) {
	v, err := ix.indexer(m)
	if err != nil {
		return nil, errors.Wrapf(err, "index %q", ix.name)
	}
	if v != nil && len(v) != ix.width {
		return nil, errors.Wrapf(errors.ErrHuman, "index %q value must be %d bytes, got %d", ix.name, ix.width, len(v))
	}
	return v, nil
}

func (ix *index) dbKey(value, key []byte) []byte {
	out := make([]byte, 0, len(ix.prefix)+len(value)+len(key))
	out = append(out, ix.prefix...)
	out = append(out, value...)
	return append(out, key...)
}

// update moves the index entry of the entity with given key from the
// previous value to the next one. Nil value means no entry.
func (ix *index) update(db splitpay.KVStore, key, prev, next []byte) error {
	if prev != nil && string(prev) == string(next) {
		return nil
	}
	if prev != nil {
		if err := db.Delete(ix.dbKey(prev, key)); err != nil {
			return errors.Wrap(err, "db delete")
		}
	}
	if next != nil {
		if err := db.Set(ix.dbKey(next, key), []byte{}); err != nil {
			return errors.Wrap(err, "db set")
		}
	}
	return nil
}

// keys returns all entity keys indexed under given value, in ascending
// order.
func (ix *index) keys(db splitpay.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	if len(value) != ix.width {
		return nil, errors.Wrapf(errors.ErrInput, "index %q value must be %d bytes", ix.name, ix.width)
	}
	start := ix.dbKey(value, nil)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "db iterator")
	}
	models, err := ConsumeIterator(it)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(models))
	for i, m := range models {
		keys[i] = m.Key[len(start):]
	}
	return keys, nil
}
