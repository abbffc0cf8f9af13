package payreq

import "github.com/iov-one/splitpay/errors"

var ErrConceptTooLong = errors.Register(130, "concept too long")
