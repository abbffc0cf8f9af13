package store

import "github.com/iov-one/splitpay"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = splitpay.ReadOnlyKVStore
	SetDeleter       = splitpay.SetDeleter
	KVStore          = splitpay.KVStore
	Batch            = splitpay.Batch
	Iterator         = splitpay.Iterator
	CacheableKVStore = splitpay.CacheableKVStore
	KVCacheWrap      = splitpay.KVCacheWrap
	CommitKVStore    = splitpay.CommitKVStore
	CommitID         = splitpay.CommitID
	Model            = splitpay.Model
)

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return splitpay.Pair(key, value)
}
