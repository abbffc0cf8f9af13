package splitpay

import (
	"reflect"

	"github.com/iov-one/splitpay/errors"
)

// Msg is a request for a state transition. Messages carry no
// authentication data; that lives in the enclosing Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example
	// "alias/register". Several message types may share a path.
	Path() string

	// Validate checks the message in isolation, without looking at the
	// state.
	Validate() error
}

// Marshaller serializes a value into its binary form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a value with a binary form it can be rebuilt from.
// Unmarshal usually needs a pointer receiver, so Marshaller is kept
// separate for read only callers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is a signed request. It wraps a single message together with whatever
// the decorators need to authenticate it.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// GetPath returns the message path of tx, or "(missing)" when tx carries
// no readable message.
func GetPath(tx Tx) string {
	if tx == nil {
		return "(missing)"
	}
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg validates the message of tx and copies it into destination, which
// must be a pointer to the concrete message type.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	msgVal := reflect.ValueOf(msg)
	destVal := reflect.ValueOf(destination)
	if destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	if msgVal.Kind() == reflect.Ptr {
		if msgVal.IsNil() {
			return errors.Wrap(errors.ErrState, "nil message")
		}
		msgVal = msgVal.Elem()
	}
	destElem := destVal.Elem()
	if !msgVal.Type().AssignableTo(destElem.Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	destElem.Set(msgVal)
	return nil
}
