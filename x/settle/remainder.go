package settle

import "github.com/iov-one/splitpay"

// Payment describes a settled payment to the remainder policy.
type Payment struct {
	Alias string
	Payer splitpay.Address
	// Source is where the value was taken from. It is the payer for native
	// payments and the payer token sub-account otherwise.
	Source splitpay.Address
	// Ticker is empty for native payments.
	Ticker string
	Amount uint64
}

// RemainderPolicy decides the fate of the part of a payment that was not
// assigned to any recipient because of rounding.
type RemainderPolicy interface {
	Remainder(db splitpay.KVStore, p Payment, remainder uint64) error
}

// KeepWithPayer leaves the remainder on the payer account.
type KeepWithPayer struct{}

var _ RemainderPolicy = KeepWithPayer{}

func (KeepWithPayer) Remainder(splitpay.KVStore, Payment, uint64) error {
	return nil
}
