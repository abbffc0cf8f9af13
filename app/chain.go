package app

import (
	"reflect"

	"github.com/iov-one/splitpay"
)

// Decorators is an ordered list of decorators waiting for the handler they
// will wrap. The first decorator runs first.
//
//	app.ChainDecorators(
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	chain []splitpay.Decorator
}

// ChainDecorators starts a chain. Nil decorators are skipped, which allows
// optional steps to be passed inline.
func ChainDecorators(chain ...splitpay.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain with given decorators appended.
func (d Decorators) Chain(more ...splitpay.Decorator) Decorators {
	chain := make([]splitpay.Decorator, 0, len(d.chain)+len(more))
	chain = append(chain, d.chain...)
	for _, dec := range more {
		if !isNilDecorator(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNilDecorator(d splitpay.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the chain with h.
func (d Decorators) WithHandler(h splitpay.Handler) splitpay.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link calls a decorator with the rest of the chain.
type link struct {
	dec  splitpay.Decorator
	next splitpay.Handler
}

func (l link) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
