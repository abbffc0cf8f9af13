package utils

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ splitpay.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx, next splitpay.Checker) (_ *splitpay.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx, next splitpay.Deliverer) (_ *splitpay.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
