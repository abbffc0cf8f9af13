package app

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/wire"
	"github.com/iov-one/splitpay/x/alias"
	"github.com/iov-one/splitpay/x/cash"
	"github.com/iov-one/splitpay/x/payreq"
	"github.com/iov-one/splitpay/x/route"
	"github.com/iov-one/splitpay/x/settle"
	"github.com/iov-one/splitpay/x/sigs"
)

// messages is the list of every message the application accepts. A
// transaction carrying a path that is not declared here cannot be decoded.
var messages = declareMessages(
	func() splitpay.Msg { return &migration.UpgradeSchemaMsg{} },
	func() splitpay.Msg { return &sigs.BumpSequenceMsg{} },
	func() splitpay.Msg { return &cash.SendMsg{} },
	func() splitpay.Msg { return &cash.OpenTokenAccountMsg{} },
	func() splitpay.Msg { return &cash.UpdateConfigurationMsg{} },
	func() splitpay.Msg { return &alias.RegisterMsg{} },
	func() splitpay.Msg { return &alias.UpdateMetadataMsg{} },
	func() splitpay.Msg { return &alias.DeactivateMsg{} },
	func() splitpay.Msg { return &alias.ReactivateMsg{} },
	func() splitpay.Msg { return &alias.DeleteMsg{} },
	func() splitpay.Msg { return &alias.TransferMsg{} },
	func() splitpay.Msg { return &route.InitMsg{} },
	func() splitpay.Msg { return &route.SetMsg{} },
	func() splitpay.Msg { return &route.DeleteMsg{} },
	func() splitpay.Msg { return &route.MigrateStaleMsg{} },
	func() splitpay.Msg { return &route.UpdateConfigurationMsg{} },
	func() splitpay.Msg { return &settle.PayMsg{} },
	func() splitpay.Msg { return &settle.PayTokenMsg{} },
	func() splitpay.Msg { return &settle.UpdateConfigurationMsg{} },
	func() splitpay.Msg { return &payreq.CreateMsg{} },
	func() splitpay.Msg { return &payreq.CloseMsg{} },
)

func declareMessages(factories ...func() splitpay.Msg) map[string]func() splitpay.Msg {
	m := make(map[string]func() splitpay.Msg, len(factories))
	for _, fn := range factories {
		path := fn().Path()
		if _, ok := m[path]; ok {
			panic("message path declared twice: " + path)
		}
		m[path] = fn
	}
	return m
}

// Tx is the transaction format accepted by the node. The message is kept in
// its serialized form together with its path, so that the signed content is
// exactly what was transmitted.
type Tx struct {
	MsgPath    string
	MsgPayload []byte
	Signatures []*sigs.StdSignature
}

var _ splitpay.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg splitpay.Msg) (*Tx, error) {
	if _, ok := messages[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown message path %q", msg.Path())
	}
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return &Tx{MsgPath: msg.Path(), MsgPayload: raw}, nil
}

// GetMsg decodes the carried message.
func (tx *Tx) GetMsg() (splitpay.Msg, error) {
	fn, ok := messages[tx.MsgPath]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown message path %q", tx.MsgPath)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.MsgPayload); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode %q message: %s", tx.MsgPath, err)
	}
	return msg, nil
}

// GetSignBytes returns the message path followed by the message bytes.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	bz := make([]byte, 0, len(tx.MsgPath)+len(tx.MsgPayload))
	bz = append(bz, tx.MsgPath...)
	bz = append(bz, tx.MsgPayload...)
	return bz, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64 + len(tx.MsgPayload) + 128*len(tx.Signatures))
	e.String(1, tx.MsgPath)
	e.Bytes(2, tx.MsgPayload)
	for _, s := range tx.Signatures {
		if err := e.Message(3, s); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			tx.MsgPath, err = f.String()
		case 2:
			tx.MsgPayload, err = f.Bytes()
		case 3:
			var s sigs.StdSignature
			err = f.Message(&s)
			tx.Signatures = append(tx.Signatures, &s)
		}
		return err
	})
}

// Sign appends a signature of given signer, bound to the chain and the
// sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
