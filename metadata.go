package splitpay

import (
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/wire"
)

// Metadata is the header of every persisted model. It carries the schema
// version the model was written with.
type Metadata struct {
	Schema uint32
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	cpy := *m
	return &cpy
}

// Validate returns an error if this metadata does not declare a schema.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrModel, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrModel, "schema version must be greater than zero")
	}
	return nil
}

// Marshal serializes the metadata.
func (m *Metadata) Marshal() ([]byte, error) {
	e := wire.NewEncoder(6)
	e.Uint32(1, m.Schema)
	return e.Result(), nil
}

// Unmarshal loads the metadata from its serialized form.
func (m *Metadata) Unmarshal(raw []byte) error {
	*m = Metadata{}
	return wire.Decode(raw, func(f wire.Field) error {
		if f.Num == 1 {
			v, err := f.Uint32()
			m.Schema = v
			return err
		}
		return nil
	})
}
