package sigs

import (
	"context"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx splitpay.Context, signers []splitpay.Condition) splitpay.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the conditions of everyone who signed the
// transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx splitpay.Context) []splitpay.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]splitpay.Condition)
	return val
}

// HasAddress returns true if the given address signed the current Context.
func (a Authenticate) HasAddress(ctx splitpay.Context, addr splitpay.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
