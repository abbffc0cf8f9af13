package splittest

import (
	"context"
	"fmt"

	"github.com/iov-one/splitpay"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer splitpay.Condition

	// Signers represents an authentication of multiple signers.
	Signers []splitpay.Condition
}

func (a *Auth) GetConditions(splitpay.Context) []splitpay.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx splitpay.Context, addr splitpay.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx splitpay.Context, permissions ...splitpay.Condition) splitpay.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx splitpay.Context) []splitpay.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]splitpay.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []splitpay.Condition got %T", ctx.Value(a.Key)))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx splitpay.Context, addr splitpay.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
