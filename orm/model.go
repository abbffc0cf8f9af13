package orm

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/wire"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	splitpay.Persistent
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for us.
// Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}

// RawRecord is the envelope every model is stored in.
type RawRecord struct {
	// Key is the record key within its bucket. It is not serialized.
	Key []byte
	// Owner is the name of the bucket that wrote this record.
	Owner string
	// Payload is the serialized model.
	Payload []byte
}

// Marshal serializes the envelope.
func (r *RawRecord) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(r.Owner) + len(r.Payload) + 8)
	e.String(1, r.Owner)
	e.Bytes(2, r.Payload)
	return e.Result(), nil
}

// Unmarshal loads the envelope. The payload is not interpreted.
func (r *RawRecord) Unmarshal(raw []byte) error {
	r.Owner, r.Payload = "", nil
	err := wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			r.Owner, err = f.String()
		case 2:
			r.Payload, err = f.Bytes()
		}
		return err
	})
	if err != nil {
		return errors.Wrap(err, "envelope")
	}
	if r.Owner == "" {
		return errors.Wrap(errors.ErrSchema, "envelope without an owner")
	}
	return nil
}
