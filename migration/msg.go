package migration

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	MustRegister(1, &UpgradeSchemaMsg{}, NoModification)
}

const pathUpgradeSchemaMsg = "migration/upgrade_schema"

// UpgradeSchemaMsg bumps the schema version of a single package.
type UpgradeSchemaMsg struct {
	Metadata  *splitpay.Metadata
	Pkg       string
	ToVersion uint32
}

var _ splitpay.Msg = (*UpgradeSchemaMsg)(nil)

func (msg *UpgradeSchemaMsg) GetMetadata() *splitpay.Metadata {
	return msg.Metadata
}

func (msg *UpgradeSchemaMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Pkg == "" {
		return errors.Wrap(errors.ErrEmpty, "pkg is required")
	}
	if msg.ToVersion == 0 {
		return errors.Wrap(errors.ErrEmpty, "to version is required")
	}
	return nil
}

func (UpgradeSchemaMsg) Path() string {
	return pathUpgradeSchemaMsg
}

func (msg *UpgradeSchemaMsg) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(msg.Pkg) + 16)
	if err := e.Message(1, msg.Metadata); err != nil {
		return nil, err
	}
	e.String(2, msg.Pkg)
	e.Uint32(3, msg.ToVersion)
	return e.Result(), nil
}

func (msg *UpgradeSchemaMsg) Unmarshal(raw []byte) error {
	*msg = UpgradeSchemaMsg{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			msg.Metadata = &splitpay.Metadata{}
			err = f.Message(msg.Metadata)
		case 2:
			msg.Pkg, err = f.String()
		case 3:
			msg.ToVersion, err = f.Uint32()
		}
		return err
	})
}
