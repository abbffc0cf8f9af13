package iavl

import (
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// treeCacheSize is the number of nodes kept in memory by the tree.
const treeCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	db   dbm.DB
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing. Data is kept in a
// leveldb database with given name, inside of the path directory.
func NewCommitStore(path, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, path)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", path, name, err)
	}
	return CommitStore{db: db, tree: iavl.NewMutableTree(db, treeCacheSize)}, nil
}

// NewMemCommitStore creates a new store that holds all data in memory.
func NewMemCommitStore() CommitStore {
	db := dbm.NewMemDB()
	return CommitStore{db: db, tree: iavl.NewMutableTree(db, treeCacheSize)}
}

// Close releases the underlying database. Uncommitted changes are lost.
func (s CommitStore) Close() {
	s.db.Close()
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions. Writing the cache
// updates the working tree, which is persisted on the next Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter returns a wrapper around the working tree.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// adapter converts the mutable tree into a KVStore.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

// Get returns nil iff key doesn't exist.
func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

// Has checks if a key exists.
func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

// Set adds a new value
func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that can write multiple ops atomically
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// CacheWrap wraps us once again, with btree
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return newLazyIterator(a.tree, start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return newLazyIterator(a.tree, start, end, false), nil
}
