package orm

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr splitpay.Iterator) ([]splitpay.Model, error) {
	defer itr.Release()

	var res []splitpay.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, splitpay.Model{Key: key, Value: value})
	}
}

// prefixEnd returns the smallest key that is greater than all keys starting
// with given prefix. Nil is returned when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
