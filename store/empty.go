package store

import "github.com/iov-one/splitpay/errors"

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer of
// MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error      { return nil }
func (EmptyKVStore) Delete([]byte) error        { return nil }
func (e EmptyKVStore) NewBatch() Batch          { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return doneIterator{}, nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return doneIterator{}, nil
}

type doneIterator struct{}

func (doneIterator) Next() ([]byte, []byte, error) {
	return nil, nil, errors.Wrap(errors.ErrIteratorDone, "empty store")
}

func (doneIterator) Release() {}
