package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Error is an error kind with a stable numeric code. Kinds are created once
// with Register and every runtime error should wrap one of them, so callers
// can test the kind with Is and clients get a meaningful code.
type Error struct {
	code uint32
	desc string
}

// usedCodes holds every registered kind. Code 1 is reserved for errors that
// do not wrap a registered kind.
var usedCodes = map[uint32]*Error{
	InternalCode: {code: InternalCode, desc: internalMessage},
}

// Register declares a new error kind. It panics when the code is taken, so
// call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error code %d is already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the stable code of this kind.
func (e Error) Code() uint32 {
	return e.code
}

// Is returns true if err is of this kind. Wrapped errors are unwrapped and a
// multi error matches if any of its members does. A nil kind matches only a
// nil error, including a typed nil pointer.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == kind {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, member := range u.Unpack() {
				if kind.Is(member) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds a description to err. A stack trace is attached at the innermost
// wrap. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap allows the standard library errors package to walk the chain.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
