package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/splitpay/errors"
)

// snapshot returns the cached changes with keys in [start, end), in
// ascending order. A nil bound is open.
func snapshot(bt *btree.BTree, start, end []byte) []entry {
	var out []entry
	collect := func(it btree.Item) bool {
		out = append(out, it.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return out
}

// newMergeIter combines the cached changes with an iterator of the
// underlying store walking the same range in the same direction. Changes
// must be given in ascending order.
func newMergeIter(changes []entry, parent Iterator, descending bool) (*mergeIter, error) {
	if descending {
		for l, r := 0, len(changes)-1; l < r; l, r = l+1, r-1 {
			changes[l], changes[r] = changes[r], changes[l]
		}
	}
	it := &mergeIter{changes: changes, parent: parent, descending: descending}
	if err := it.pull(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

// mergeIter yields the union of cached changes and parent content. A cached
// entry shadows the parent value of the same key and a deleted entry hides
// it.
type mergeIter struct {
	changes    []entry
	parent     Iterator
	descending bool

	// The parent is read one pair ahead.
	pkey, pvalue []byte
	pvalid       bool
}

var _ Iterator = (*mergeIter)(nil)

func (it *mergeIter) Next() (key, value []byte, err error) {
	for {
		if len(it.changes) == 0 || (it.pvalid && it.precedes(it.pkey, it.changes[0].key)) {
			if !it.pvalid {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache wrap")
			}
			key, value = it.pkey, it.pvalue
			if err := it.pull(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		change := it.changes[0]
		it.changes = it.changes[1:]
		if it.pvalid && bytes.Equal(it.pkey, change.key) {
			if err := it.pull(); err != nil {
				return nil, nil, err
			}
		}
		if !change.deleted {
			return change.key, change.value, nil
		}
	}
}

func (it *mergeIter) Release() {
	it.parent.Release()
	it.changes = nil
}

// precedes reports whether key a comes before b in iteration order.
func (it *mergeIter) precedes(a, b []byte) bool {
	if it.descending {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

func (it *mergeIter) pull() error {
	key, value, err := it.parent.Next()
	switch {
	case err == nil:
		it.pkey, it.pvalue, it.pvalid = key, value, true
	case errors.ErrIteratorDone.Is(err):
		it.pkey, it.pvalue, it.pvalid = nil, nil, false
	default:
		return err
	}
	return nil
}
