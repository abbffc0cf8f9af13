package utils

import "github.com/iov-one/splitpay"

// writeHandler writes the key, value pair and returns the error (may be nil)
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ splitpay.Handler = writeHandler{}

func (h writeHandler) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &splitpay.CheckResult{}, nil
}

func (h writeHandler) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &splitpay.DeliverResult{}, nil
}

// writeDecorator writes the key, value pair.
// either before or after calling the handlers
type writeDecorator struct {
	key   []byte
	value []byte
	after bool
}

var _ splitpay.Decorator = writeDecorator{}

func (d writeDecorator) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx, next splitpay.Checker) (*splitpay.CheckResult, error) {
	if !d.after {
		_ = store.Set(d.key, d.value)
	}
	res, err := next.Check(ctx, store, tx)
	if d.after {
		_ = store.Set(d.key, d.value)
	}
	return res, err
}

func (d writeDecorator) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx, next splitpay.Deliverer) (*splitpay.DeliverResult, error) {
	if !d.after {
		_ = store.Set(d.key, d.value)
	}
	res, err := next.Deliver(ctx, store, tx)
	if d.after {
		_ = store.Set(d.key, d.value)
	}
	return res, err
}
