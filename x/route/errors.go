package route

import "github.com/iov-one/splitpay/errors"

var (
	ErrTooManySplits      = errors.Register(110, "too many splits")
	ErrInvalidSplitTotal  = errors.Register(111, "invalid split total")
	ErrDuplicateRecipient = errors.Register(112, "duplicate recipient")
	ErrSelfReference      = errors.Register(113, "self reference")
)
