package splittest

import "github.com/iov-one/splitpay"

// calls counts invocations of both request phases.
type calls struct {
	check   int
	deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// Handler is a handler that returns preset results and records how often it
// was called.
type Handler struct {
	calls

	CheckResult   splitpay.CheckResult
	CheckErr      error
	DeliverResult splitpay.DeliverResult
	DeliverErr    error
}

var _ splitpay.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	h.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	h.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// Decorator passes requests to the next handler unless an error is preset
// for the phase. Every call is counted, failed ones included.
type Decorator struct {
	calls

	CheckErr   error
	DeliverErr error
}

var _ splitpay.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx, next splitpay.Checker) (*splitpay.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx, next splitpay.Deliverer) (*splitpay.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns h wrapped by d.
func Decorate(h splitpay.Handler, d splitpay.Decorator) splitpay.Handler {
	return decorated{h: h, d: d}
}

type decorated struct {
	h splitpay.Handler
	d splitpay.Decorator
}

func (w decorated) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	return w.d.Check(ctx, db, tx, w.h)
}

func (w decorated) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	return w.d.Deliver(ctx, db, tx, w.h)
}
