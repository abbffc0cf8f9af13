package cash

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	migration.MustRegister(1, &SendMsg{}, migration.NoModification)
	migration.MustRegister(1, &OpenTokenAccountMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateConfigurationMsg{}, migration.NoModification)
}

const (
	pathSendMsg                = "cash/send"
	pathOpenTokenAccountMsg    = "cash/open_token_account"
	pathUpdateConfigurationMsg = "cash/update_configuration"

	maxMemoSize = 128
)

// SendMsg moves native value between two wallets.
type SendMsg struct {
	Metadata    *splitpay.Metadata
	Source      splitpay.Address
	Destination splitpay.Address
	Amount      uint64
	Memo        string
}

var _ splitpay.Msg = (*SendMsg)(nil)

func (m *SendMsg) GetMetadata() *splitpay.Metadata {
	return m.Metadata
}

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "cannot be longer than %d", maxMemoSize))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64 + len(m.Memo))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, m.Source)
	e.Bytes(3, m.Destination)
	e.Uint64(4, m.Amount)
	e.String(5, m.Memo)
	return e.Result(), nil
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var (
			err error
			b   []byte
		)
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			b, err = f.Bytes()
			m.Source = b
		case 3:
			b, err = f.Bytes()
			m.Destination = b
		case 4:
			m.Amount, err = f.Uint64()
		case 5:
			m.Memo, err = f.String()
		}
		return err
	})
}

// OpenTokenAccountMsg creates an empty token sub-account for the owner.
type OpenTokenAccountMsg struct {
	Metadata *splitpay.Metadata
	Owner    splitpay.Address
	Ticker   string
}

var _ splitpay.Msg = (*OpenTokenAccountMsg)(nil)

func (m *OpenTokenAccountMsg) GetMetadata() *splitpay.Metadata {
	return m.Metadata
}

func (OpenTokenAccountMsg) Path() string {
	return pathOpenTokenAccountMsg
}

func (m *OpenTokenAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if !IsTicker(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "invalid ticker %q", m.Ticker))
	}
	return errs
}

func (m *OpenTokenAccountMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(40)
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, m.Owner)
	e.String(3, m.Ticker)
	return e.Result(), nil
}

func (m *OpenTokenAccountMsg) Unmarshal(raw []byte) error {
	*m = OpenTokenAccountMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			m.Owner = b
		case 3:
			m.Ticker, err = f.String()
		}
		return err
	})
}

// UpdateConfigurationMsg patches the ledger configuration. Only non zero
// fields of the patch are applied.
type UpdateConfigurationMsg struct {
	Metadata *splitpay.Metadata
	Patch    *Configuration
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (m *UpdateConfigurationMsg) GetMetadata() *splitpay.Metadata {
	return m.Metadata
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) ConfigPatch() gconf.OwnedConfig {
	return m.Patch
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if m.Patch.NativeTicker != "" && !IsTicker(m.Patch.NativeTicker) {
		return errors.Wrapf(errors.ErrInput, "invalid ticker %q", m.Patch.NativeTicker)
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64)
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	if m.Patch != nil {
		if err := e.Message(2, m.Patch); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			m.Patch = &Configuration{}
			err = f.Message(m.Patch)
		}
		return err
	})
}
