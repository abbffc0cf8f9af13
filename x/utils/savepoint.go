package utils

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// Savepoint runs the wrapped handler on a cache of the store. The cache is
// written only when the handler succeeds, so a failed payment leaves no
// partial transfers behind. Each phase must be enabled explicitly.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ splitpay.Decorator = Savepoint{}

// NewSavepoint returns a savepoint that is enabled for no phase.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for the check phase.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for the deliver phase.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx, next splitpay.Checker) (*splitpay.CheckResult, error) {
	run := func(kv splitpay.KVStore) (*splitpay.CheckResult, error) {
		return next.Check(ctx, kv, tx)
	}
	if !s.onCheck {
		return run(db)
	}
	return isolate(db, run)
}

func (s Savepoint) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx, next splitpay.Deliverer) (*splitpay.DeliverResult, error) {
	run := func(kv splitpay.KVStore) (*splitpay.DeliverResult, error) {
		return next.Deliver(ctx, kv, tx)
	}
	if !s.onDeliver {
		return run(db)
	}
	return isolate(db, run)
}

// isolate calls run with a cache of db and commits it on success. Stores that
// cannot be cached are passed through.
func isolate[R any](db splitpay.KVStore, run func(splitpay.KVStore) (R, error)) (R, error) {
	cacheable, ok := db.(splitpay.CacheableKVStore)
	if !ok {
		return run(db)
	}
	cache := cacheable.CacheWrap()
	res, err := run(cache)
	if err != nil {
		cache.Discard()
		var zero R
		return zero, err
	}
	if err := cache.Write(); err != nil {
		var zero R
		return zero, errors.Wrap(err, "write savepoint")
	}
	return res, nil
}
