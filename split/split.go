/*
Package split implements the arithmetic dividing a payment between the
recipients of a route.

Weights are expressed in basis points, 10000 being the whole amount. Every
share is computed independently and rounded down, so the sum of all shares
never exceeds the total. Whatever is left is the remainder and its fate is
decided by the caller.
*/
package split

import (
	"math/bits"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/wire"
)

// BasisPoints is the weight representing the whole amount.
const BasisPoints = 10000

// Compute returns floor(total * weightBps / 10000). The product must be
// representable in 64 bits, otherwise ErrOverflow is returned.
func Compute(total uint64, weightBps uint16) (uint64, error) {
	hi, lo := bits.Mul64(total, uint64(weightBps))
	if hi != 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", total, weightBps)
	}
	return lo / BasisPoints, nil
}

// Split is a single weighted recipient of a route.
type Split struct {
	Recipient splitpay.Address `json:"recipient"`
	Weight    uint16           `json:"weight_bps"`
}

func (s *Split) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(s.Recipient) + 8)
	e.Bytes(1, s.Recipient)
	e.Uint32(2, uint32(s.Weight))
	return e.Result(), nil
}

func (s *Split) Unmarshal(raw []byte) error {
	*s = Split{}
	return wire.Decode(raw, func(f wire.Field) error {
		switch f.Num {
		case 1:
			b, err := f.Bytes()
			s.Recipient = b
			return err
		case 2:
			w, err := f.Uint32()
			if err != nil {
				return err
			}
			if w > 0xFFFF {
				return errors.Wrapf(errors.ErrSchema, "weight %d", w)
			}
			s.Weight = uint16(w)
		}
		return nil
	})
}

// Share is the amount computed for a single recipient.
type Share struct {
	Recipient splitpay.Address `json:"recipient"`
	Amount    uint64           `json:"amount"`
}

// Distribute computes the share of every split, in order. Zero shares are
// left out. The remainder is the part of the total not assigned to anyone.
func Distribute(total uint64, splits []Split) (shares []Share, remainder uint64, err error) {
	remainder = total
	for i, s := range splits {
		amount, err := Compute(total, s.Weight)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "split %d", i)
		}
		if amount == 0 {
			continue
		}
		if amount > remainder {
			return nil, 0, errors.Wrapf(errors.ErrOverflow, "split %d exceeds the total", i)
		}
		remainder -= amount
		shares = append(shares, Share{Recipient: s.Recipient, Amount: amount})
	}
	return shares, remainder, nil
}

func (s *Share) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(s.Recipient) + 12)
	e.Bytes(1, s.Recipient)
	e.Uint64(2, s.Amount)
	return e.Result(), nil
}

func (s *Share) Unmarshal(raw []byte) error {
	*s = Share{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			var b []byte
			b, err = f.Bytes()
			s.Recipient = b
		case 2:
			s.Amount, err = f.Uint64()
		}
		return err
	})
}
