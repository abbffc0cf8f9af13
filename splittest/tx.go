package splittest

import "github.com/iov-one/splitpay"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg splitpay.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ splitpay.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (splitpay.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg represents a message with a configurable path.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ splitpay.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Validate() error {
	return m.Err
}
