package splitpay

// ReadOnlyKVStore is the read side of the state. Keys are ordered
// lexicographically.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks keys in [start, end) in ascending order. A nil bound
	// is open. The range must not be written while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks keys in [start, end) in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Implementations
// must not modify given slices.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is a readable and writable state.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch groups writes that are applied together on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator returns key value pairs until it fails with ErrIteratorDone.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Release()
//	for {
//		key, value, err := it.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		}
//		...
//	}
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can open a scratch pad of uncommitted writes on top of
// itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of writes visible only through itself until
// Write. Every request runs in one so that a failed request leaves no trace.
type KVCacheWrap interface {
	CacheableKVStore

	// Write applies the cached writes to the parent store.
	Write() error

	// Discard drops the cached writes.
	Discard()
}

// CommitKVStore is the persistent root of the state. Each commit creates a
// new version.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit persists all writes made through cache wraps as a new version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the newest version that was fully written.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
