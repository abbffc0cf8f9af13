package alias

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	migration.MustRegister(1, &RegisterMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateMetadataMsg{}, migration.NoModification)
	migration.MustRegister(1, &DeactivateMsg{}, migration.NoModification)
	migration.MustRegister(1, &ReactivateMsg{}, migration.NoModification)
	migration.MustRegister(1, &DeleteMsg{}, migration.NoModification)
	migration.MustRegister(1, &TransferMsg{}, migration.NoModification)
}

const (
	pathRegisterMsg       = "alias/register"
	pathUpdateMetadataMsg = "alias/update_metadata"
	pathDeactivateMsg     = "alias/deactivate"
	pathReactivateMsg     = "alias/reactivate"
	pathDeleteMsg         = "alias/delete"
	pathTransferMsg       = "alias/transfer"
)

// RegisterMsg claims a free alias for the owner.
type RegisterMsg struct {
	Metadata    *splitpay.Metadata
	Owner       splitpay.Address
	Alias       string
	MetadataURI string
}

var _ splitpay.Msg = (*RegisterMsg)(nil)

func (m *RegisterMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (RegisterMsg) Path() string { return pathRegisterMsg }

func (m *RegisterMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Alias", ValidateAlias(m.Alias))
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(m.MetadataURI))
	return errs
}

func (m *RegisterMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(32 + len(m.Alias) + len(m.MetadataURI))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, m.Owner)
	e.String(3, m.Alias)
	e.String(4, m.MetadataURI)
	return e.Result(), nil
}

func (m *RegisterMsg) Unmarshal(raw []byte) error {
	*m = RegisterMsg{}
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
			m.Alias, err = f.String()
		case 4:
			m.MetadataURI, err = f.String()
		}
		return err
	})
}

// UpdateMetadataMsg replaces the metadata uri of an alias.
type UpdateMetadataMsg struct {
	Metadata    *splitpay.Metadata
	Alias       string
	MetadataURI string
}

var _ splitpay.Msg = (*UpdateMetadataMsg)(nil)

func (m *UpdateMetadataMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (UpdateMetadataMsg) Path() string { return pathUpdateMetadataMsg }

func (m *UpdateMetadataMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Alias", ValidateAlias(m.Alias))
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(m.MetadataURI))
	return errs
}

func (m *UpdateMetadataMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(16 + len(m.Alias) + len(m.MetadataURI))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.String(2, m.Alias)
	e.String(3, m.MetadataURI)
	return e.Result(), nil
}

func (m *UpdateMetadataMsg) Unmarshal(raw []byte) error {
	*m = UpdateMetadataMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Metadata = &splitpay.Metadata{}
			err = f.Message(m.Metadata)
		case 2:
			m.Alias, err = f.String()
		case 3:
			m.MetadataURI, err = f.String()
		}
		return err
	})
}

// DeactivateMsg stops an alias from receiving payments.
type DeactivateMsg struct {
	Metadata *splitpay.Metadata
	Alias    string
}

var _ splitpay.Msg = (*DeactivateMsg)(nil)

func (m *DeactivateMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (DeactivateMsg) Path() string { return pathDeactivateMsg }

func (m *DeactivateMsg) Validate() error { return validateAliasMsg(m.Metadata, m.Alias) }

func (m *DeactivateMsg) Marshal() ([]byte, error) { return marshalAliasMsg(m.Metadata, m.Alias) }

func (m *DeactivateMsg) Unmarshal(raw []byte) error {
	*m = DeactivateMsg{}
	return unmarshalAliasMsg(raw, &m.Metadata, &m.Alias)
}

// ReactivateMsg allows a deactivated alias to receive payments again.
type ReactivateMsg struct {
	Metadata *splitpay.Metadata
	Alias    string
}

var _ splitpay.Msg = (*ReactivateMsg)(nil)

func (m *ReactivateMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (ReactivateMsg) Path() string { return pathReactivateMsg }

func (m *ReactivateMsg) Validate() error { return validateAliasMsg(m.Metadata, m.Alias) }

func (m *ReactivateMsg) Marshal() ([]byte, error) { return marshalAliasMsg(m.Metadata, m.Alias) }

func (m *ReactivateMsg) Unmarshal(raw []byte) error {
	*m = ReactivateMsg{}
	return unmarshalAliasMsg(raw, &m.Metadata, &m.Alias)
}

// DeleteMsg removes an alias and frees its name.
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

// TransferMsg hands an alias over to a new owner.
type TransferMsg struct {
	Metadata *splitpay.Metadata
	Alias    string
	NewOwner splitpay.Address
}

var _ splitpay.Msg = (*TransferMsg)(nil)

func (m *TransferMsg) GetMetadata() *splitpay.Metadata { return m.Metadata }

func (TransferMsg) Path() string { return pathTransferMsg }

func (m *TransferMsg) Validate() error {
	errs := validateAliasMsg(m.Metadata, m.Alias)
	return errors.AppendField(errs, "NewOwner", m.NewOwner.Validate())
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(32 + len(m.Alias))
	if err := e.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	e.String(2, m.Alias)
	e.Bytes(3, m.NewOwner)
	return e.Result(), nil
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	*m = TransferMsg{}
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
			m.NewOwner = b
		}
		return err
	})
}

func validateAliasMsg(meta *splitpay.Metadata, name string) error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", meta.Validate())
	errs = errors.AppendField(errs, "Alias", ValidateAlias(name))
	return errs
}

func marshalAliasMsg(meta *splitpay.Metadata, name string) ([]byte, error) {
	e := wire.NewEncoder(8 + len(name))
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
