package cash

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/wire"
)

const confPkg = "cash"

// Configuration of the ledger.
type Configuration struct {
	Metadata *splitpay.Metadata `json:"metadata"`
	// Owner is allowed to update the configuration.
	Owner splitpay.Address `json:"owner"`
	// NativeTicker is the ticker of all wallets stored under an owner
	// address.
	NativeTicker string `json:"native_ticker"`
	// RecordDeposit is the native amount locked for as long as a record
	// exists.
	RecordDeposit uint64 `json:"record_deposit"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() splitpay.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	// owner field is optional
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if !IsTicker(c.NativeTicker) {
		errs = errors.Append(errs, errors.Field("NativeTicker", errors.ErrInput, "invalid ticker %q", c.NativeTicker))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := wire.NewEncoder(48)
	if err := e.Message(1, c.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, c.Owner)
	e.String(3, c.NativeTicker)
	e.Uint64(4, c.RecordDeposit)
	return e.Result(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			c.Metadata = &splitpay.Metadata{}
			err = f.Message(c.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			c.Owner = b
		case 3:
			c.NativeTicker, err = f.String()
		case 4:
			c.RecordDeposit, err = f.Uint64()
		}
		return err
	})
}

func mustLoadConf(db gconf.ReadStore) Configuration {
	var conf Configuration
	gconf.MustLoad(db, confPkg, &conf)
	return conf
}
