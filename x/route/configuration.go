package route

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/wire"
)

const confPkg = "route"

// Configuration of the route registry.
type Configuration struct {
	Metadata *splitpay.Metadata `json:"metadata"`
	// Owner is allowed to update the configuration.
	Owner splitpay.Address `json:"owner"`
	// MaxSplits is the number of recipients a route can declare.
	MaxSplits uint32 `json:"max_splits"`
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
	if c.MaxSplits < 1 || c.MaxSplits > MaxSplits {
		errs = errors.Append(errs, errors.Field("MaxSplits", errors.ErrInput, "must be between 1 and %d", MaxSplits))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := wire.NewEncoder(40)
	if err := e.Message(1, c.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, c.Owner)
	e.Uint32(3, c.MaxSplits)
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
			c.MaxSplits, err = f.Uint32()
		}
		return err
	})
}

func mustLoadConf(db gconf.ReadStore) Configuration {
	var conf Configuration
	gconf.MustLoad(db, confPkg, &conf)
	return conf
}
