/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain nonces for replay protection.
*/
package sigs

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ splitpay.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{allowMissingSigs: false}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx, next splitpay.Checker) (*splitpay.CheckResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx, next splitpay.Deliverer) (*splitpay.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) authenticate(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (splitpay.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		if d.allowMissingSigs {
			return ctx, nil
		}
		return nil, errors.Wrap(errors.ErrUnauthorized, "transaction is not signed")
	}

	signers, err := VerifyTxSignatures(store, stx, splitpay.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
