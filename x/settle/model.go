package settle

import (
	"github.com/iov-one/splitpay/split"
	"github.com/iov-one/splitpay/wire"
)

// Receipt is returned as the result data of a settled payment.
type Receipt struct {
	Shares []split.Share `json:"shares"`
	// Remainder is the part of the amount that was not routed.
	Remainder uint64 `json:"remainder"`
}

func (r *Receipt) Marshal() ([]byte, error) {
	e := wire.NewEncoder(8 + 32*len(r.Shares))
	for i := range r.Shares {
		if err := e.Message(1, &r.Shares[i]); err != nil {
			return nil, err
		}
	}
	e.Uint64(2, r.Remainder)
	return e.Result(), nil
}

func (r *Receipt) Unmarshal(raw []byte) error {
	*r = Receipt{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			var s split.Share
			err = f.Message(&s)
			r.Shares = append(r.Shares, s)
		case 2:
			r.Remainder, err = f.Uint64()
		}
		return err
	})
}
