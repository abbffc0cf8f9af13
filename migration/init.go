package migration

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ splitpay.Initializer = Initializer{}

// FromGenesis will parse the migration configuration and the list of
// initialized packages from genesis and save them to the database.
//
//	"initialize_schema": [{"pkg": "alias", "ver": 1}]
func (Initializer) FromGenesis(opts splitpay.Options, kv splitpay.KVStore) error {
	if err := gconf.InitConfig(kv, opts, confPkg, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	next, err := opts.Stream("initialize_schema")
	switch {
	case errors.ErrEmpty.Is(err):
		return nil
	case err != nil:
		return errors.Wrap(err, "initialize_schema")
	}

	b := NewSchemaBucket()
	for {
		var s struct {
			Pkg     string `json:"pkg"`
			Version uint32 `json:"ver"`
		}
		switch err := next(&s); {
		case errors.ErrEmpty.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "cannot load schema")
		}
		for v := uint32(1); v <= s.Version; v++ {
			err := b.Create(kv, &Schema{
				Metadata: &splitpay.Metadata{Schema: 1},
				Pkg:      s.Pkg,
				Version:  v,
			})
			if err != nil && !errors.ErrDuplicate.Is(err) {
				return errors.Wrapf(err, "cannot save %q schema %d", s.Pkg, v)
			}
		}
	}
}
