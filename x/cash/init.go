package cash

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// A ticker other than the native one funds the token sub-account of the
// address.
type GenesisAccount struct {
	Address splitpay.Address `json:"address"`
	Ticker  string           `json:"ticker,omitempty"`
	Amount  uint64           `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ splitpay.Initializer = Initializer{}

// FromGenesis will parse the configuration and initial account info from
// genesis and save it to the database
func (Initializer) FromGenesis(opts splitpay.Options, kv splitpay.KVStore) error {
	if err := gconf.InitConfig(kv, opts, confPkg, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	native := mustLoadConf(kv).NativeTicker

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if acct.Ticker == "" || acct.Ticker == native {
			if err := ctrl.Issue(kv, acct.Address, acct.Amount); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
			continue
		}
		if err := issueToken(kv, ctrl, acct); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

func issueToken(db splitpay.KVStore, ctrl BaseController, acct GenesisAccount) error {
	addr := TokenAccountAddress(acct.Address, acct.Ticker)
	w, err := ctrl.Account(db, addr)
	if errors.ErrNotFound.Is(err) {
		if _, err := ctrl.OpenTokenAccount(db, acct.Address, acct.Ticker); err != nil {
			return err
		}
		w, err = ctrl.Account(db, addr)
	}
	if err != nil {
		return err
	}
	if err := w.credit(acct.Amount); err != nil {
		return err
	}
	return ctrl.bucket.Put(db, addr, w)
}
