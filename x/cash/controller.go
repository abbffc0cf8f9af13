package cash

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
)

// Controller is the functionality of the ledger other extensions depend on.
type Controller interface {
	// Balance returns the amount held by the wallet under given address.
	// A missing wallet holds nothing.
	Balance(db splitpay.ReadOnlyKVStore, addr splitpay.Address) (uint64, error)

	// Account returns the wallet stored under given address or
	// ErrNotFound.
	Account(db splitpay.ReadOnlyKVStore, addr splitpay.Address) (*Wallet, error)

	// Transfer moves native value between two wallets. The destination
	// wallet is created if needed.
	Transfer(db splitpay.KVStore, from, to splitpay.Address, amount uint64) error

	// TokenTransfer moves value between two existing token sub-accounts
	// of the same ticker. Authority must own the source sub-account.
	TokenTransfer(db splitpay.KVStore, fromSub, toSub, authority splitpay.Address, amount uint64) error

	// OpenTokenAccount creates an empty token sub-account and returns its
	// address.
	OpenTokenAccount(db splitpay.KVStore, owner splitpay.Address, ticker string) (splitpay.Address, error)

	// Issue creates native value out of thin air.
	Issue(db splitpay.KVStore, addr splitpay.Address, amount uint64) error

	// Deposit locks the configured record deposit at the record address.
	// It returns the locked amount.
	Deposit(db splitpay.KVStore, payer, record splitpay.Address) (uint64, error)

	// Release drains everything held at the record address to given
	// destination and returns the released amount.
	Release(db splitpay.KVStore, record, to splitpay.Address) (uint64, error)
}

// BaseController is the ledger backed by the cash bucket.
type BaseController struct {
	bucket *migration.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db splitpay.ReadOnlyKVStore, addr splitpay.Address) (uint64, error) {
	w, err := c.Account(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return w.Amount, nil
}

func (c BaseController) Account(db splitpay.ReadOnlyKVStore, addr splitpay.Address) (*Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	var w Wallet
	if err := c.bucket.One(db, addr, &w); err != nil {
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
	return &w, nil
}

// native returns the native wallet stored under given address. A new,
// empty wallet is returned if none exists and create is set.
func (c BaseController) native(db splitpay.ReadOnlyKVStore, addr splitpay.Address, create bool) (*Wallet, error) {
	ticker := mustLoadConf(db).NativeTicker
	w, err := c.Account(db, addr)
	switch {
	case err == nil:
		if w.Ticker != ticker {
			return nil, errors.Wrapf(errors.ErrInput, "%s is a %s token account", addr, w.Ticker)
		}
		return w, nil
	case create && errors.ErrNotFound.Is(err):
		return &Wallet{
			Metadata: &splitpay.Metadata{Schema: 1},
			Owner:    addr,
			Ticker:   ticker,
		}, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", addr)
	default:
		return nil, err
	}
}

func (c BaseController) Transfer(db splitpay.KVStore, from, to splitpay.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	src, err := c.native(db, from, false)
	if err != nil {
		return err
	}
	if from.Equals(to) {
		if src.Amount < amount {
			return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", src.Amount, amount)
		}
		return nil
	}
	dst, err := c.native(db, to, true)
	if err != nil {
		return err
	}
	return c.move(db, from, src, to, dst, amount)
}

func (c BaseController) TokenTransfer(db splitpay.KVStore, fromSub, toSub, authority splitpay.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	src, err := c.Account(db, fromSub)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := c.Account(db, toSub)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Owner.Equals(authority) {
		return errors.Wrap(errors.ErrUnauthorized, "authority does not own the source account")
	}
	if src.Ticker != dst.Ticker {
		return errors.Wrapf(errors.ErrInput, "ticker mismatch %s != %s", src.Ticker, dst.Ticker)
	}
	if fromSub.Equals(toSub) {
		if src.Amount < amount {
			return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", src.Amount, amount)
		}
		return nil
	}
	return c.move(db, fromSub, src, toSub, dst, amount)
}

// move debits src and credits dst. Nothing is written unless both
// operations succeed.
func (c BaseController) move(db splitpay.KVStore, from splitpay.Address, src *Wallet, to splitpay.Address, dst *Wallet, amount uint64) error {
	if err := src.debit(amount); err != nil {
		return err
	}
	if err := dst.credit(amount); err != nil {
		return err
	}
	if err := c.bucket.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.bucket.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c BaseController) OpenTokenAccount(db splitpay.KVStore, owner splitpay.Address, ticker string) (splitpay.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if !IsTicker(ticker) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid ticker %q", ticker)
	}
	if ticker == mustLoadConf(db).NativeTicker {
		return nil, errors.Wrap(errors.ErrInput, "native ticker is held in the owner wallet")
	}
	addr := TokenAccountAddress(owner, ticker)
	switch ok, err := c.bucket.Has(db, addr); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "token account %s", addr)
	}
	w := &Wallet{
		Metadata: &splitpay.Metadata{Schema: 1},
		Owner:    owner,
		Ticker:   ticker,
	}
	if err := c.bucket.Put(db, addr, w); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	return addr, nil
}

func (c BaseController) Issue(db splitpay.KVStore, addr splitpay.Address, amount uint64) error {
	w, err := c.native(db, addr, true)
	if err != nil {
		return err
	}
	if err := w.credit(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, addr, w)
}

func (c BaseController) Deposit(db splitpay.KVStore, payer, record splitpay.Address) (uint64, error) {
	amount := mustLoadConf(db).RecordDeposit
	if amount == 0 {
		return 0, nil
	}
	if err := c.Transfer(db, payer, record, amount); err != nil {
		return 0, errors.Wrap(err, "record deposit")
	}
	return amount, nil
}

func (c BaseController) Release(db splitpay.KVStore, record, to splitpay.Address) (uint64, error) {
	w, err := c.native(db, record, true)
	if err != nil {
		return 0, err
	}
	amount := w.Amount
	if amount > 0 {
		if err := c.Transfer(db, record, to, amount); err != nil {
			return 0, errors.Wrap(err, "release deposit")
		}
	}
	switch err := c.bucket.Delete(db, record); {
	case err == nil, errors.ErrNotFound.Is(err):
		return amount, nil
	default:
		return 0, errors.Wrap(err, "delete deposit wallet")
	}
}
