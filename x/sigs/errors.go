package sigs

import "github.com/iov-one/splitpay/errors"

// ErrInvalidSequence is returned when a signature carries a sequence that is
// not the next expected value of the signer.
var ErrInvalidSequence = errors.Register(20, "invalid sequence number")
