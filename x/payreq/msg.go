package payreq

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/wire"
	"github.com/iov-one/splitpay/x/alias"
)

func init() {
	migration.MustRegister(1, &CreateMsg{}, migration.NoModification)
	migration.MustRegister(1, &CloseMsg{}, migration.NoModification)
}

const (
	pathCreateMsg = "payreq/create"
	pathCloseMsg  = "payreq/close"
)

// CreateMsg asks for a payment to an alias.
type CreateMsg struct {
	Metadata       *splitpay.Metadata
	Sender         splitpay.Address
	RecipientAlias string
	Amount         uint64
	Concept        string
}

var _ splitpay.Msg = (*CreateMsg)(nil)

func (m *CreateMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	errs = errors.AppendField(errs, "RecipientAlias", alias.ValidateAlias(m.RecipientAlias))
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	errs = errors.AppendField(errs, "Concept", validateConcept(m.Concept))
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(48 + len(m.RecipientAlias) + len(m.Concept))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, m.Sender)
	e.String(3, m.RecipientAlias)
	e.Uint64(4, m.Amount)
	e.String(5, m.Concept)
	return e.Result(), nil
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			m.Sender = b
		case 3:
			m.RecipientAlias, err = f.String()
		case 4:
			m.Amount, err = f.Uint64()
		case 5:
			m.Concept, err = f.String()
		}
		return err
	})
}

// CloseMsg removes the request of a sender to an alias.
type CloseMsg struct {
	Metadata       *splitpay.Metadata
	Sender         splitpay.Address
	RecipientAlias string
}

var _ splitpay.Msg = (*CloseMsg)(nil)

func (m *CloseMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (CloseMsg) Path() string { return pathCloseMsg }

func (m *CloseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	errs = errors.AppendField(errs, "RecipientAlias", alias.ValidateAlias(m.RecipientAlias))
	return errs
}

func (m *CloseMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(40 + len(m.RecipientAlias))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, m.Sender)
	e.String(3, m.RecipientAlias)
	return e.Result(), nil
}

func (m *CloseMsg) Unmarshal(raw []byte) error {
	*m = CloseMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			m.Sender = b
		case 3:
			m.RecipientAlias, err = f.String()
		}
		return err
	})
}
