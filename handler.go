package splitpay

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/splitpay/errors"
)

// Handler executes messages routed to it. Check runs the validation only
// and Deliver applies the state transition.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a handler, for example to authenticate or log a
// request, and decides whether to call next.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// CheckResult is returned by a successful Check.
type CheckResult struct {
	Log string
}

// DeliverResult is returned by a successful Deliver. Data is meant for
// programs, for example the key of a created record or the list of settled
// shares. Log is meant for humans.
type DeliverResult struct {
	Data []byte
	Log  string
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis document, one raw JSON entry per top level key.
type Options map[string]json.RawMessage

// ReadOptions decodes the entry under key into obj. A missing key leaves obj
// untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Stream expects the value stored under given key to be a JSON list. It
// returns a function that decodes the next element of that list on every
// call. When all elements are consumed ErrEmpty is returned. Any further call
// returns ErrState.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	raw := o[key]
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrEmpty, "no %q key", key)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var started, done bool
	return func(obj interface{}) error {
		if done {
			return errors.Wrap(errors.ErrState, "stream closed")
		}
		if !started {
			started = true
			if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
				done = true
				return errors.Wrapf(errors.ErrInput, "%q is not a list", key)
			}
		}
		if !dec.More() {
			done = true
			return errors.Wrap(errors.ErrEmpty, "end of list")
		}
		if err := dec.Decode(obj); err != nil {
			done = true
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		return nil
	}, nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers returns an Initializer running inits in order and
// stopping at the first failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (inits initializers) FromGenesis(opts Options, kv KVStore) error {
	for _, in := range inits {
		if err := in.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
