package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree is the degree of every cache tree.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a btree backed cache wrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in memory store without persistence. Writing it
// discards the content.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap holds all changes of a single request in a btree on top
// of a read only store. Changes are recorded in a batch as well and reach
// the underlying store only when the cache is written.
type BTreeCacheWrap struct {
	changes *btree.BTree
	free    *btree.FreeList
	back    ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv. All writes must go through
// the batch. A nil free list allocates a new one. Nested caches share the
// free list of their parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		changes: btree.NewWithFreeList(btreeDegree, free),
		free:    free,
		back:    kv,
		batch:   batch,
	}
}

// CacheWrap nests another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all changes to the underlying store and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all changes and returns the tree nodes to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.changes.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.changes.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.changes.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.cached(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.cached(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// cached returns the change recorded for given key, if any.
func (b BTreeCacheWrap) cached(key []byte) (entry, bool) {
	item := b.changes.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Iterator returns the keys in [start, end) in ascending order, merging the
// cached changes with the underlying store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIter(snapshot(b.changes, start, end), parentIter, false)
}

// ReverseIterator returns the keys in [start, end) in descending order,
// merging the cached changes with the underlying store.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIter(snapshot(b.changes, start, end), parentIter, true)
}

// entry is a single change held by the cache. A deleted entry hides the
// value of the underlying store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
