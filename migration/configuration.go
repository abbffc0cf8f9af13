package migration

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/wire"
)

const confPkg = "migration"

// Configuration of the migration package. Admin is the only address
// allowed to upgrade schema versions.
type Configuration struct {
	Metadata *splitpay.Metadata `json:"metadata"`
	Admin    splitpay.Address   `json:"admin"`
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := wire.NewEncoder(32)
	if err := e.Message(1, c.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, c.Admin)
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
			c.Admin = b
		}
		return err
	})
}

func mustLoadConf(db gconf.ReadStore) Configuration {
	var conf Configuration
	gconf.MustLoad(db, confPkg, &conf)
	return conf
}

// CurrentAdmin returns the migration admin address. It can be used as the
// initialization admin of other packages configuration.
func CurrentAdmin(db splitpay.ReadOnlyKVStore) (splitpay.Address, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return conf.Admin, nil
}
