package iavl

import (
	"sync"

	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/store"
	"github.com/tendermint/iavl"
)

// lazyIterator walks the tree in a separate goroutine and hands over one
// item at a time.
type lazyIterator struct {
	read <-chan store.Model
	stop chan<- struct{}
	done <-chan struct{}
	once sync.Once
}

var _ store.Iterator = (*lazyIterator)(nil)

func newLazyIterator(tree *iavl.MutableTree, start, end []byte, ascending bool) *lazyIterator {
	read := make(chan store.Model)
	// ensure we never block when we call Release()
	stop := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(read)
		tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
			select {
			case read <- store.Model{Key: key, Value: value}:
				return false
			case <-stop:
				return true
			}
		})
	}()

	return &lazyIterator{
		read: read,
		stop: stop,
		done: done,
	}
}

// Next returns the next item or ErrIteratorDone if there are no more.
func (i *lazyIterator) Next() (key, value []byte, err error) {
	m, ok := <-i.read
	if !ok {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "iavl")
	}
	return m.Key, m.Value, nil
}

// Release stops the tree walk and waits until it is finished.
func (i *lazyIterator) Release() {
	i.once.Do(func() {
		i.stop <- struct{}{}
		<-i.done
	})
}
