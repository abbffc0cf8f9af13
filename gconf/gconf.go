package gconf

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// ReadStore is the part of splitpay.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of splitpay.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a serializable, self validating package configuration.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// ValidMarshaler is the write side of a Configuration.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is the read side of a Configuration.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// confKey is the singleton key holding the configuration of a package.
func confKey(pkg string) []byte {
	return append([]byte("_c:"), pkg...)
}

// Save stores conf as the configuration of pkg. Invalid configurations are
// never written.
func Save(db Store, pkg string, conf ValidMarshaler) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot serialize %s configuration", pkg)
	}
	if err := db.Set(confKey(pkg), raw); err != nil {
		return errors.Wrapf(err, "cannot store %s configuration", pkg)
	}
	return nil
}

// Load reads the configuration of pkg into dst. ErrNotFound is returned when
// nothing was saved yet.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(confKey(pkg))
	switch {
	case err != nil:
		return errors.Wrapf(err, "cannot read %s configuration", pkg)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot deserialize %s configuration", pkg)
	}
	return nil
}

// MustLoad is Load for code paths that run only after genesis. A missing or
// broken configuration at that point is a setup bug, so it panics.
func MustLoad(db ReadStore, pkg string, dst Unmarshaler) {
	if err := Load(db, pkg, dst); err != nil {
		panic(err)
	}
}

// InitConfig reads the "conf" section of the genesis options, decodes the
// entry for pkg into conf and saves it.
func InitConfig(db Store, opts splitpay.Options, pkg string, conf Configuration) error {
	var section splitpay.Options
	if err := opts.ReadOptions("conf", &section); err != nil {
		return errors.Wrap(err, "conf section")
	}
	if _, ok := section[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no %s configuration", pkg)
	}
	if err := section.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "decode %s configuration", pkg)
	}
	return Save(db, pkg, conf)
}
