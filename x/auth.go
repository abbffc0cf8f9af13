package x

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// Authenticator tells which conditions signed the request carried by a
// context. Handlers receive one in their constructor and never inspect
// signatures themselves.
type Authenticator interface {
	GetConditions(splitpay.Context) []splitpay.Condition
	HasAddress(splitpay.Context, splitpay.Address) bool
}

// MultiAuth merges the view of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an authenticator that accepts anything one of given
// authenticators accepts.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns conditions of all authenticators, in order.
func (m MultiAuth) GetConditions(ctx splitpay.Context) []splitpay.Condition {
	var res []splitpay.Condition
	for _, impl := range m {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx splitpay.Context, addr splitpay.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer of the request or nil.
func MainSigner(ctx splitpay.Context, auth Authenticator) splitpay.Condition {
	if signers := auth.GetConditions(ctx); len(signers) > 0 {
		return signers[0]
	}
	return nil
}

// Signers returns addresses of all request signers.
func Signers(ctx splitpay.Context, auth Authenticator) []splitpay.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]splitpay.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// RequireSigner returns ErrUnauthorized unless addr signed the request. Role
// names the party in the error message, for example "payer".
func RequireSigner(ctx splitpay.Context, auth Authenticator, addr splitpay.Address, role string) error {
	if addr == nil || !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
	}
	return nil
}

// SignedByAny returns true if at least one of given addresses signed the
// request.
func SignedByAny(ctx splitpay.Context, auth Authenticator, addrs ...splitpay.Address) bool {
	for _, a := range addrs {
		if a != nil && auth.HasAddress(ctx, a) {
			return true
		}
	}
	return false
}
