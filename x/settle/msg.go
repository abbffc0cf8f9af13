package settle

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/wire"
	"github.com/iov-one/splitpay/x/alias"
	"github.com/iov-one/splitpay/x/cash"
)

func init() {
	migration.MustRegister(1, &PayMsg{}, migration.NoModification)
	migration.MustRegister(1, &PayTokenMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateConfigurationMsg{}, migration.NoModification)
}

const (
	pathPayMsg                 = "settle/pay"
	pathPayTokenMsg            = "settle/pay_token"
	pathUpdateConfigurationMsg = "settle/update_configuration"

	maxMemoSize = 128
)

// PayMsg pays a native amount to an alias. Targets lists the transfer
// target of every split of the route, in route order.
type PayMsg struct {
	Metadata *splitpay.Metadata
	Payer    splitpay.Address
	Alias    string
	Amount   uint64
	Targets  []splitpay.Address
	Memo     string
}

var _ splitpay.Msg = (*PayMsg)(nil)

func (m *PayMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (PayMsg) Path() string { return pathPayMsg }

func (m *PayMsg) Validate() error {
	errs := validatePayment(m.Metadata, m.Payer, m.Alias, m.Targets)
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "cannot be longer than %d", maxMemoSize))
	}
	return errs
}

func (m *PayMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64 + len(m.Alias) + len(m.Memo) + 22*len(m.Targets))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, m.Payer)
	e.String(3, m.Alias)
	e.Uint64(4, m.Amount)
	e.RepeatedBytes(5, addressList(m.Targets))
	e.String(6, m.Memo)
	return e.Result(), nil
}

func (m *PayMsg) Unmarshal(raw []byte) error {
	*m = PayMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			m.Payer = b
		case 3:
			m.Alias, err = f.String()
		case 4:
			m.Amount, err = f.Uint64()
		case 5:
			var b []byte
			b, err = f.Bytes()
			m.Targets = append(m.Targets, b)
		case 6:
			m.Memo, err = f.String()
		}
		return err
	})
}

// PayTokenMsg pays an amount of a token to an alias. Every target must be
// the token sub-account of the recipient of the split at the same position.
type PayTokenMsg struct {
	Metadata *splitpay.Metadata
	Payer    splitpay.Address
	Alias    string
	Amount   uint64
	Ticker   string
	Targets  []splitpay.Address
}

var _ splitpay.Msg = (*PayTokenMsg)(nil)

func (m *PayTokenMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (PayTokenMsg) Path() string { return pathPayTokenMsg }

func (m *PayTokenMsg) Validate() error {
	errs := validatePayment(m.Metadata, m.Payer, m.Alias, m.Targets)
	if !cash.IsTicker(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "invalid ticker %q", m.Ticker))
	}
	return errs
}

func (m *PayTokenMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64 + len(m.Alias) + 22*len(m.Targets))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, m.Payer)
	e.String(3, m.Alias)
	e.Uint64(4, m.Amount)
	e.String(5, m.Ticker)
	e.RepeatedBytes(6, addressList(m.Targets))
	return e.Result(), nil
}

func (m *PayTokenMsg) Unmarshal(raw []byte) error {
	*m = PayTokenMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			m.Payer = b
		case 3:
			m.Alias, err = f.String()
		case 4:
			m.Amount, err = f.Uint64()
		case 5:
			m.Ticker, err = f.String()
		case 6:
			var b []byte
			b, err = f.Bytes()
			m.Targets = append(m.Targets, b)
		}
		return err
	})
}

func validatePayment(meta *splitpay.Metadata, payer splitpay.Address, name string, targets []splitpay.Address) error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", meta.Validate())
	errs = errors.AppendField(errs, "Payer", payer.Validate())
	errs = errors.AppendField(errs, "Alias", alias.ValidateAlias(name))
	for i, t := range targets {
		if err := t.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Targets", err, "target %d", i))
		}
	}
	return errs
}

func addressList(addrs []splitpay.Address) [][]byte {
	out := make([][]byte, len(addrs))
	for i, a := range addrs {
		out[i] = a
	}
	return out
}

// UpdateConfigurationMsg patches the settlement configuration.
type UpdateConfigurationMsg struct {
	Metadata *splitpay.Metadata
	Patch    *Configuration
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (m *UpdateConfigurationMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (UpdateConfigurationMsg) Path() string { return pathUpdateConfigurationMsg }

func (m *UpdateConfigurationMsg) ConfigPatch() gconf.OwnedConfig { return m.Patch }

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(48)
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
