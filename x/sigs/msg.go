package sigs

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	migration.MustRegister(1, &BumpSequenceMsg{}, migration.NoModification)
}

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the main signer by the given
// value. Processing the transaction itself already counts as one.
type BumpSequenceMsg struct {
	Metadata  *splitpay.Metadata
	Increment uint32
}

var _ splitpay.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) GetMetadata() *splitpay.Metadata {
	return msg.Metadata
}

func (msg *BumpSequenceMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(16)
	if err := e.Message(1, msg.Metadata); err != nil {
		return nil, err
	}
	e.Uint32(2, msg.Increment)
	return e.Result(), nil
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	*msg = BumpSequenceMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			msg.Metadata = &splitpay.Metadata{}
			err = f.Message(msg.Metadata)
		case 2:
			msg.Increment, err = f.Uint32()
		}
		return err
	})
}
