package settle

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/wire"
)

const confPkg = "settle"

// Configuration of the settlement engine.
type Configuration struct {
	Metadata *splitpay.Metadata `json:"metadata"`
	// Owner is allowed to update the configuration.
	Owner splitpay.Address `json:"owner"`
	// MinPayment is the smallest amount that can be paid to an alias.
	MinPayment uint64 `json:"min_payment"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() splitpay.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if c.MinPayment < 1 {
		errs = errors.Append(errs, errors.Field("MinPayment", errors.ErrInput, "must be at least 1"))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := wire.NewEncoder(40)
	if err := e.Message(1, c.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, c.Owner)
	e.Uint64(3, c.MinPayment)
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
			c.MinPayment, err = f.Uint64()
		}
		return err
	})
}

func mustLoadConf(db gconf.ReadStore) Configuration {
	var conf Configuration
	gconf.MustLoad(db, confPkg, &conf)
	return conf
}
