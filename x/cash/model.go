package cash

import (
	"regexp"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/orm"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	migration.MustRegister(1, &Wallet{}, migration.NoModification)
}

// BucketName is where we store the balances
const BucketName = "cash"

// IsTicker returns true if given string is a valid ticker.
var IsTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Wallet holds the balance of a single ticker.
type Wallet struct {
	Metadata *splitpay.Metadata `json:"metadata"`
	Owner    splitpay.Address   `json:"owner"`
	Ticker   string             `json:"ticker"`
	Amount   uint64             `json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) GetMetadata() *splitpay.Metadata {
	return w.Metadata
}

func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", w.Owner.Validate())
	if !IsTicker(w.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "invalid ticker %q", w.Ticker))
	}
	return errs
}

func (w *Wallet) Marshal() ([]byte, error) {
	e := wire.NewEncoder(48)
	if err := e.Message(1, w.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, w.Owner)
	e.String(3, w.Ticker)
	e.Uint64(4, w.Amount)
	return e.Result(), nil
}

func (w *Wallet) Unmarshal(raw []byte) error {
	*w = Wallet{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			w.Metadata = &splitpay.Metadata{}
			err = f.Message(w.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			w.Owner = b
		case 3:
			w.Ticker, err = f.String()
		case 4:
			w.Amount, err = f.Uint64()
		}
		return err
	})
}

// credit adds given amount to the wallet, failing on overflow.
func (w *Wallet) credit(amount uint64) error {
	if w.Amount+amount < w.Amount {
		return errors.Wrapf(errors.ErrOverflow, "%d + %d", w.Amount, amount)
	}
	w.Amount += amount
	return nil
}

// debit removes given amount from the wallet. The wallet is not modified
// if the balance is not sufficient.
func (w *Wallet) debit(amount uint64) error {
	if w.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", w.Amount, amount)
	}
	w.Amount -= amount
	return nil
}

// TokenAccountAddress returns the address of the token sub-account of given
// owner.
func TokenAccountAddress(owner splitpay.Address, ticker string) splitpay.Address {
	return splitpay.Derive("token", owner, []byte(ticker))
}

// NewBucket returns a bucket of all wallets. Wallets are indexed by their
// owner.
func NewBucket() *migration.ModelBucket {
	b := orm.NewModelBucket(BucketName, &Wallet{},
		orm.WithIndex("owner", splitpay.AddressLength, ownerIndexer))
	return migration.NewModelBucket("cash", b)
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	w, ok := m.(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return w.Owner, nil
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr splitpay.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
