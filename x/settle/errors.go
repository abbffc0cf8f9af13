package settle

import "github.com/iov-one/splitpay/errors"

var (
	ErrAmountTooSmall   = errors.Register(120, "amount too small")
	ErrAliasInactive    = errors.Register(121, "alias inactive")
	ErrRouteMismatch    = errors.Register(122, "route mismatch")
	ErrMissingRecipient = errors.Register(123, "missing recipient")
	ErrAddressMismatch  = errors.Register(124, "address mismatch")
)
