package store

import "github.com/iov-one/splitpay/errors"

// Op is a single recorded write: a set or, when deleted is true, a delete.
type Op struct {
	key     []byte
	value   []byte
	deleted bool
}

// SetOp records setting key to value.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp records deleting key.
func DelOp(key []byte) Op {
	return Op{key: key, deleted: true}
}

// Apply performs the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.key == nil {
		return errors.Wrap(errors.ErrDatabase, "operation without a key")
	}
	if o.deleted {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch queues writes and replays them on Write. A failure in the
// middle of Write leaves earlier writes applied, so it must back only stores
// that are themselves thrown away on failure, like the request caches.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays queued writes in order and empties the queue.
func (b *NonAtomicBatch) Write() error {
	for i, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			b.ops = b.ops[i:]
			return err
		}
	}
	b.ops = nil
	return nil
}

// Len returns the number of queued writes.
func (b *NonAtomicBatch) Len() int {
	return len(b.ops)
}
