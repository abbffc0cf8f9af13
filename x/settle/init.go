package settle

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ splitpay.Initializer = Initializer{}

// FromGenesis stores the settlement configuration.
func (Initializer) FromGenesis(opts splitpay.Options, db splitpay.KVStore) error {
	if err := gconf.InitConfig(db, opts, confPkg, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
