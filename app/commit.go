package app

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// CommitStore handles loading from a CommitKVStore and hands out a fresh
// cache wrap for every request.
type CommitStore struct {
	committed splitpay.CommitKVStore
}

// NewCommitStore loads the latest version of the given store.
func NewCommitStore(store splitpay.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{committed: store}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (splitpay.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Request returns a scratch pad for a single request. Call Write to keep the
// changes or Discard to drop them.
func (cs *CommitStore) Request() splitpay.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// Commit persists all written requests as a new version.
func (cs *CommitStore) Commit() (splitpay.CommitID, error) {
	return cs.committed.Commit()
}

// _sp: is a prefix for splitpay internal data
const chainIDKey = "_sp:chainID"

// getter is implemented by both a committed store and a request store.
type getter interface {
	Get(key []byte) ([]byte, error)
}

// loadChainID returns the chain id stored if any.
func loadChainID(kv getter) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv splitpay.KVStore, chainID string) error {
	if !splitpay.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
