package route

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/split"
	"github.com/iov-one/splitpay/wire"
	"github.com/iov-one/splitpay/x/alias"
)

func init() {
	migration.MustRegister(1, &InitMsg{}, migration.NoModification)
	migration.MustRegister(1, &SetMsg{}, migration.NoModification)
	migration.MustRegister(1, &DeleteMsg{}, migration.NoModification)
	migration.MustRegister(1, &MigrateStaleMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateConfigurationMsg{}, migration.NoModification)
}

const (
	pathInitMsg                = "route/init"
	pathSetMsg                 = "route/set"
	pathDeleteMsg              = "route/delete"
	pathMigrateStaleMsg        = "route/migrate_stale"
	pathUpdateConfigurationMsg = "route/update_configuration"
)

// InitMsg creates an empty route for an alias.
type InitMsg struct {
	Metadata *splitpay.Metadata
	Alias    string
}

var _ splitpay.Msg = (*InitMsg)(nil)

func (m *InitMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (InitMsg) Path() string { return pathInitMsg }

func (m *InitMsg) Validate() error { return validateAliasMsg(m.Metadata, m.Alias) }

func (m *InitMsg) Marshal() ([]byte, error) { return marshalAliasMsg(m.Metadata, m.Alias) }

func (m *InitMsg) Unmarshal(raw []byte) error {
	*m = InitMsg{}
	return unmarshalAliasMsg(raw, &m.Metadata, &m.Alias)
}

// DeleteMsg removes the route of an alias.
type DeleteMsg struct {
	Metadata *splitpay.Metadata
	Alias    string
}

var _ splitpay.Msg = (*DeleteMsg)(nil)

func (m *DeleteMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (DeleteMsg) Path() string { return pathDeleteMsg }

func (m *DeleteMsg) Validate() error { return validateAliasMsg(m.Metadata, m.Alias) }

func (m *DeleteMsg) Marshal() ([]byte, error) { return marshalAliasMsg(m.Metadata, m.Alias) }

func (m *DeleteMsg) Unmarshal(raw []byte) error {
	*m = DeleteMsg{}
	return unmarshalAliasMsg(raw, &m.Metadata, &m.Alias)
}

func validateAliasMsg(meta *splitpay.Metadata, name string) error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", meta.Validate())
	errs = errors.AppendField(errs, "Alias", alias.ValidateAlias(name))
	return errs
}

func marshalAliasMsg(meta *splitpay.Metadata, name string) ([]byte, error) {
	e := wire.NewEncoder(16 + len(name))
	if err := e.Message(1, meta); err != nil {
		return nil, err
	}
	e.String(2, name)
	return e.Result(), nil
}

func unmarshalAliasMsg(raw []byte, meta **splitpay.Metadata, name *string) error {
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			*meta = &splitpay.Metadata{}
			err = f.Message(*meta)
		case 2:
			*name, err = f.String()
		}
		return err
	})
}

// SetMsg replaces the whole split list of a route. The route is created if
// it does not exist.
type SetMsg struct {
	Metadata *splitpay.Metadata
	Alias    string
	Splits   []split.Split
}

var _ splitpay.Msg = (*SetMsg)(nil)

func (m *SetMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (SetMsg) Path() string { return pathSetMsg }

func (m *SetMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Alias", alias.ValidateAlias(m.Alias))
	errs = errors.AppendField(errs, "Splits", ValidateSplits(m.Alias, m.Splits, MaxSplits))
	return errs
}

func (m *SetMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(16 + len(m.Alias) + 32*len(m.Splits))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.String(2, m.Alias)
	for i := range m.Splits {
		if err := e.Message(3, &m.Splits[i]); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (m *SetMsg) Unmarshal(raw []byte) error {
	*m = SetMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			m.Alias, err = f.String()
		case 3:
			var s split.Split
			err = f.Message(&s)
			m.Splits = append(m.Splits, s)
		}
		return err
	})
}

// MigrateStaleMsg retires a route record that can no longer be decoded.
// RouteAddress is the address the caller claims the record is stored under.
type MigrateStaleMsg struct {
	Metadata     *splitpay.Metadata
	Alias        string
	RouteAddress splitpay.Address
}

var _ splitpay.Msg = (*MigrateStaleMsg)(nil)

func (m *MigrateStaleMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (MigrateStaleMsg) Path() string { return pathMigrateStaleMsg }

func (m *MigrateStaleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Alias", alias.ValidateAlias(m.Alias))
	errs = errors.AppendField(errs, "RouteAddress", m.RouteAddress.Validate())
	return errs
}

func (m *MigrateStaleMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(40 + len(m.Alias))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.String(2, m.Alias)
	e.Bytes(3, m.RouteAddress)
	return e.Result(), nil
}

func (m *MigrateStaleMsg) Unmarshal(raw []byte) error {
	*m = MigrateStaleMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			m.Alias, err = f.String()
		case 3:
			var b []byte
			b, err = f.Bytes()
			m.RouteAddress = b
		}
		return err
	})
}

// UpdateConfigurationMsg patches the route registry configuration.
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
	if m.Patch.MaxSplits > MaxSplits {
		return errors.Wrapf(errors.ErrInput, "max splits above %d", MaxSplits)
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
